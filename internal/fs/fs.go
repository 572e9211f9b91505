// Package fs is the filesystem seam used by the status store.
//
// The main types are:
//   - [FS]: the operations the store needs
//   - [Real]: production implementation backed by [os] and atomic renames
//   - [Faulty]: test implementation that fails chosen operations on demand
package fs

import (
	"os"
)

// FS defines the filesystem operations used for status records, the
// metadata index and deliverable probing.
//
// All methods mirror their [os] package equivalents except
// [FS.WriteFileAtomic], which never leaves a partially written file at path.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a temp file in the same directory and
	// renames it over path. On failure the previous file is unchanged and
	// the temp file is removed.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Rename moves a file or directory. See [os.Rename].
	Rename(oldpath, newpath string) error

	// RemoveAll deletes a path and any children. See [os.RemoveAll].
	RemoveAll(path string) error
}
