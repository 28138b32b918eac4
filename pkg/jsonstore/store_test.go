package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
)

type doc struct {
	Names []string `json:"names"`
}

func TestLoadSeedsDefaults(t *testing.T) {
	fsys := filesystem.NewMemory()
	store := New[doc](fsys, "/home/u/.config/astutus/names.json", []byte(`{"names":["a","b"]}`))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Names)

	_, err = fsys.Stat(store.Path())
	assert.NoError(t, err, "defaults are written to disk")

	seeded, err := store.Seed()
	require.NoError(t, err)
	assert.False(t, seeded, "an existing file is never overwritten")
}

func TestLoadWithoutDefaults(t *testing.T) {
	store := New[doc](filesystem.NewMemory(), "/x/names.json", nil)

	_, err := store.Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestSaveRoundTrip(t *testing.T) {
	fsys := filesystem.NewMemory()
	store := New[doc](fsys, "/x/names.json", []byte(`{"names":[]}`))

	require.NoError(t, store.Save(doc{Names: []string{"c"}}))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Names)

	_, err = fsys.Stat("/x/names.json.tmp")
	assert.Error(t, err, "temporary file is renamed away")
}

func TestLoadBrokenJSON(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/x", 0755))
	require.NoError(t, fsys.WriteFile("/x/names.json", []byte(`{"names":`), 0644))

	_, err := New[doc](fsys, "/x/names.json", nil).Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"names":[]}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() { changed <- struct{}{} })
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644))
	store := New[doc](filesystem.NewOS(), path, nil)
	require.NoError(t, store.Save(doc{Names: []string{"z"}}))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
