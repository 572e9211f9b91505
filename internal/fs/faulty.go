package fs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Op names an [FS] method that [Faulty] can fail.
type Op string

const (
	OpReadFile        Op = "read"
	OpWriteFileAtomic Op = "write"
	OpReadDir         Op = "readdir"
	OpMkdirAll        Op = "mkdir"
	OpStat            Op = "stat"
	OpRename          Op = "rename"
	OpRemoveAll       Op = "removeall"
)

// ErrInjected is wrapped by every failure [Faulty] produces.
var ErrInjected = errors.New("injected fault")

// InjectedError marks an error as produced by [Faulty].
type InjectedError struct {
	Op   Op
	Path string
	Err  error
}

func (e *InjectedError) Error() string {
	return string(e.Op) + " " + e.Path + ": " + e.Err.Error()
}

func (e *InjectedError) Unwrap() []error {
	return []error{e.Err, ErrInjected}
}

// IsInjected reports whether err (or any wrapped error) came from [Faulty].
func IsInjected(err error) bool {
	return errors.Is(err, ErrInjected)
}

type faultKey struct {
	op   Op
	path string
}

// Faulty wraps an [FS] and fails selected operations on selected paths.
// Paths are compared after [filepath.Clean]. It also counts atomic writes
// so tests can assert that a rejected mutation touched nothing.
type Faulty struct {
	inner FS

	mu      sync.Mutex
	faults  map[faultKey]error
	crashes map[string]bool
	writes  int
}

// NewFaulty returns a [Faulty] delegating to inner.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{
		inner:   inner,
		faults:  make(map[faultKey]error),
		crashes: make(map[string]bool),
	}
}

// FailOn makes op on path return err until [Faulty.Clear] is called.
// A nil err fails with a permission error.
func (f *Faulty) FailOn(op Op, path string, err error) {
	if err == nil {
		err = os.ErrPermission
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[faultKey{op, filepath.Clean(path)}] = err
}

// CrashBeforeRename makes the next atomic write to path stop after the temp
// file is written: the temp file is left behind, the target is untouched,
// and the write reports an error.
func (f *Faulty) CrashBeforeRename(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.crashes[filepath.Clean(path)] = true
}

// Clear removes all configured faults.
func (f *Faulty) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = make(map[faultKey]error)
	f.crashes = make(map[string]bool)
}

// Writes returns how many atomic writes completed successfully.
func (f *Faulty) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.faults[faultKey{op, filepath.Clean(path)}]; ok {
		return &InjectedError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile, path); err != nil {
		return nil, err
	}
	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic, path); err != nil {
		return err
	}

	f.mu.Lock()
	crash := f.crashes[filepath.Clean(path)]
	delete(f.crashes, filepath.Clean(path))
	f.mu.Unlock()

	if crash {
		tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".crash")
		// Half the payload, as a torn write would leave it.
		_ = os.WriteFile(tmp, data[:len(data)/2], perm)
		return &InjectedError{Op: OpRename, Path: path, Err: errors.New("crashed before rename")}
	}

	if err := f.inner.WriteFileAtomic(path, data, perm); err != nil {
		return err
	}

	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	return nil
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.check(OpReadDir, path); err != nil {
		return nil, err
	}
	return f.inner.ReadDir(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}
	return f.inner.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpStat, path); err != nil {
		return false, err
	}
	return f.inner.Exists(path)
}

func (f *Faulty) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.inner.Rename(oldpath, newpath)
}

func (f *Faulty) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.inner.RemoveAll(path)
}

var _ FS = (*Faulty)(nil)
