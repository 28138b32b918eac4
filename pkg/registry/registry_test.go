package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register(1, "tty", "tty_symlink"))
	require.NoError(t, r.Register(2, "nodepath"))

	item, group, err := r.Lookup("tty_symlink")
	require.NoError(t, err)
	assert.Equal(t, 1, item)
	assert.Equal(t, []string{"tty", "tty_symlink"}, group)

	item, group, err = r.Lookup("nodepath")
	require.NoError(t, err)
	assert.Equal(t, 2, item)
	assert.Equal(t, []string{"nodepath"}, group)

	assert.Equal(t, []string{"nodepath", "tty", "tty_symlink"}, r.Names())
	assert.True(t, r.Has("tty"))
	assert.False(t, r.Has("vendor"))
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		code  errors.ErrorCode
	}{
		{"no names", nil, errors.ErrInvalidInput},
		{"empty name", []string{"vendor", ""}, errors.ErrInvalidInput},
		{"taken name", []string{"vendor", "tty"}, errors.ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New[string]()
			require.NoError(t, r.Register("x", "tty"))

			err := r.Register("y", tt.names...)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.False(t, r.Has("vendor"), "a failed registration claims nothing")
		})
	}
}

func TestLookupMissing(t *testing.T) {
	_, group, err := New[int]().Lookup("colour")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Nil(t, group)
}

func TestLookupReturnsCopy(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register(1, "a", "b"))

	_, group, err := r.Lookup("a")
	require.NoError(t, err)
	group[0] = "z"

	_, group, err = r.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, group)
}

func TestMustRegisterPanicsOnClash(t *testing.T) {
	r := New[int]()
	MustRegister(r, 1, "tty")
	assert.Panics(t, func() { MustRegister(r, 2, "tty") })
}

func TestConcurrentAccess(t *testing.T) {
	r := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(i, string(rune('a'+i)))
			_ = r.Names()
			_, _, _ = r.Lookup("a")
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Names(), 20)
}
