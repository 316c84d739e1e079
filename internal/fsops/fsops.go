// Package fsops abstracts the filesystem operations the engine performs, so
// the walker and executor can run against an in-memory filesystem in tests.
package fsops

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem capability injected into the walker and executor.
type FS interface {
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Remove(path string) error
	RemoveAll(path string) error
	MkdirAll(path string, perm fs.FileMode) error
	// Copy recursively copies src (file or directory) to dst.
	Copy(src, dst string) error
	// MoveToTrash moves the path to the system trash. Implementations
	// without a trash primitive fall back to permanent deletion.
	MoveToTrash(path string) error
}

// OS is the real-filesystem implementation of FS.
type OS struct{}

func NewOS() *OS { return &OS{} }

func (*OS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }
func (*OS) Stat(path string) (fs.FileInfo, error)      { return os.Stat(path) }
func (*OS) Remove(path string) error                   { return os.Remove(path) }
func (*OS) RemoveAll(path string) error                { return os.RemoveAll(path) }

func (*OS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

func (o *OS) Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := o.Copy(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
