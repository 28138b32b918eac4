package filesystem

import (
	"io/fs"

	"github.com/spf13/afero"
)

// FS is the subset of filesystem operations the engine needs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Readlink(name string) (string, error)

	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Afero adapts an afero filesystem to FS
type Afero struct {
	afero.Fs
}

var _ FS = (*Afero)(nil)

// NewOS returns the host filesystem
func NewOS() *Afero {
	return &Afero{Fs: afero.NewOsFs()}
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() *Afero {
	return &Afero{Fs: afero.NewMemMapFs()}
}

// ReadFile rejects directories, which afero's in-memory files would
// otherwise read as empty
func (a *Afero) ReadFile(name string) ([]byte, error) {
	info, err := a.Fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.Fs, name)
}

// ReadDir lists name sorted by entry name
func (a *Afero) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(a.Fs, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

// Readlink fails with afero.ErrNoReadlink on filesystems without links
func (a *Afero) Readlink(name string) (string, error) {
	if lr, ok := a.Fs.(afero.LinkReader); ok {
		return lr.ReadlinkIfPossible(name)
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (a *Afero) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.Fs, name, data, perm)
}
