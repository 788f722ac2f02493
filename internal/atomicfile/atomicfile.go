// Package atomicfile writes files through a temp file in the target
// directory that is renamed into place on commit. Readers never observe a
// partially written file.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrClosed is returned when a File is used after Commit or Abort.
var ErrClosed = errors.New("atomic file already closed")

// File is a pending write to Path.
type File struct {
	*os.File
	Path string
	done bool
}

// Create opens a temp file next to path, creating the directory if needed.
// perm 0 keeps the mode of an existing file at path, else 0644.
func Create(path string, perm os.FileMode) (*File, error) {
	if perm == 0 {
		perm = 0o644
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	_ = tmp.Chmod(perm)
	return &File{File: tmp, Path: path}, nil
}

// Commit flushes the temp file and renames it over Path.
func (f *File) Commit() error {
	if f.done {
		return ErrClosed
	}
	f.done = true
	tmpPath := f.Name()
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		// Windows refuses to rename over an existing file.
		_ = os.Remove(f.Path)
		if err2 := os.Rename(tmpPath, f.Path); err2 != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("rename temp file: %w", err)
		}
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	_ = f.Close()
	return os.Remove(f.Name())
}

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := Create(path, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Abort()
		return fmt.Errorf("write temp file: %w", err)
	}
	return f.Commit()
}
