// Package storage provides atomic file writes, scoped scratch directories
// and the binary envelope used for everything firstaide persists.
package storage

import (
	"os"
	"path/filepath"
	"sync"
)

// WriteFileAtomic writes data to path so that readers only ever observe the
// previous file or the complete new one. It ensures the parent directory
// exists, writes to a temp file next to path, syncs it, then renames it
// into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}

// SaveEncoded encodes v with [Encode] and writes it atomically to path.
func SaveEncoded(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o600)
}

// LoadEncoded reads path and decodes it into dest with [Decode].
// Returns an error matching os.ErrNotExist if the file doesn't exist.
func LoadEncoded(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(data, dest)
}

// TempDir creates a scratch directory inside parent. The returned cleanup
// removes it with everything inside; it is safe to call more than once and
// is meant to be deferred immediately.
func TempDir(parent, pattern string) (string, func(), error) {
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", nil, err
	}
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return "", nil, err
	}
	var once sync.Once
	cleanup := func() {
		once.Do(func() { _ = os.RemoveAll(dir) })
	}
	return dir, cleanup, nil
}
