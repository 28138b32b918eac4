package jsonstore

import (
	"encoding/json"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
)

// File is a JSON document of type T stored at a path
type File[T any] struct {
	fs       filesystem.FS
	path     string
	defaults []byte
	logger   zerolog.Logger
}

// New creates a store for path. defaults seeds a missing file and may be nil.
func New[T any](fsys filesystem.FS, path string, defaults []byte) *File[T] {
	return &File[T]{
		fs:       fsys,
		path:     path,
		defaults: defaults,
		logger:   logging.GetLogger("jsonstore").With().Str("file", filepath.Base(path)).Logger(),
	}
}

// Path returns the file location
func (f *File[T]) Path() string {
	return f.path
}

// Seed writes the defaults if the file does not exist and reports whether
// it did
func (f *File[T]) Seed() (bool, error) {
	if _, err := f.fs.Stat(f.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", f.path)
	}
	if f.defaults == nil {
		return false, nil
	}
	if err := f.write(f.defaults); err != nil {
		return false, err
	}
	f.logger.Info().Str("path", f.path).Msg("Seeded from packaged defaults")
	return true, nil
}

// Load reads and decodes the document, seeding it first when absent
func (f *File[T]) Load() (T, error) {
	var doc T

	if _, err := f.Seed(); err != nil {
		return doc, err
	}

	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, errors.Wrapf(err, errors.ErrNotFound, "%s does not exist", f.path)
		}
		return doc, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", f.path)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.Wrapf(err, errors.ErrConfigParse, "failed to decode %s", f.path)
	}

	f.logger.Debug().Int("bytes", len(data)).Msg("Loaded")
	return doc, nil
}

// Save encodes doc and replaces the file
func (f *File[T]) Save(doc T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to encode %s", f.path)
	}
	if err := f.write(append(data, '\n')); err != nil {
		return err
	}
	f.logger.Debug().Int("bytes", len(data)).Msg("Saved")
	return nil
}

func (f *File[T]) write(data []byte) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create directory for %s", f.path)
	}
	tmp := f.path + ".tmp"
	if err := f.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", f.path)
	}
	return nil
}
