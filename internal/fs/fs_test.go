package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReal_Exists(t *testing.T) {
	r := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")

	exists, err := r.Exists(path)
	if err != nil || exists {
		t.Fatalf("Exists(missing) = %v, %v; want false, nil", exists, err)
	}

	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err = r.Exists(path)
	if err != nil || !exists {
		t.Fatalf("Exists(present) = %v, %v; want true, nil", exists, err)
	}
}

func TestReal_WriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	r := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "record.yaml")

	if err := r.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := r.WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := r.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	info, err := r.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("perm = %o, want 644", perm)
	}

	entries, err := r.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the target file", len(entries))
	}
}

func TestReal_WriteFileAtomic_MissingDirFails(t *testing.T) {
	r := NewReal()
	path := filepath.Join(t.TempDir(), "nope", "record.yaml")

	if err := r.WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestFaulty_FailOn(t *testing.T) {
	f := NewFaulty(NewReal())
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yaml")

	f.FailOn(OpWriteFileAtomic, path, nil)

	err := f.WriteFileAtomic(path, []byte("x"), 0o644)
	if !IsInjected(err) {
		t.Fatalf("err = %v, want injected", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("err = %v, want wrapping os.ErrPermission", err)
	}
	if f.Writes() != 0 {
		t.Errorf("Writes = %d, want 0", f.Writes())
	}

	f.Clear()
	if err := f.WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write after Clear: %v", err)
	}
	if f.Writes() != 1 {
		t.Errorf("Writes = %d, want 1", f.Writes())
	}
}

func TestFaulty_CrashBeforeRename_LeavesTargetIntact(t *testing.T) {
	f := NewFaulty(NewReal())
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yaml")

	if err := f.WriteFileAtomic(path, []byte("committed"), 0o644); err != nil {
		t.Fatalf("setup write: %v", err)
	}

	f.CrashBeforeRename(path)
	if err := f.WriteFileAtomic(path, []byte("never lands"), 0o644); !IsInjected(err) {
		t.Fatalf("err = %v, want injected crash", err)
	}

	got, err := f.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "committed" {
		t.Errorf("content = %q, want %q", got, "committed")
	}

	// The crash is one-shot.
	if err := f.WriteFileAtomic(path, []byte("later"), 0o644); err != nil {
		t.Fatalf("write after crash: %v", err)
	}
}
