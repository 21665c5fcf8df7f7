package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firstaide/firstaide/internal/env"
	"github.com/firstaide/firstaide/internal/storage"
	"github.com/firstaide/firstaide/internal/sums"
)

// FileName is the name of the cache file inside the cache directory.
const FileName = "cache"

// ErrNotFound is returned by Load when no cache file exists.
var ErrNotFound = errors.New("no cache found")

// CorruptError reports a cache file that exists but cannot be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("cache %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Entry is the environment change produced by a build, valid while Sums
// matches the watched files.
type Entry struct {
	Diff env.Changes
	Sums sums.Set
}

// Path returns the cache file path for a cache directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Save writes the entry to path atomically, replacing any previous entry.
func Save(path string, entry *Entry) error {
	return storage.SaveEncoded(path, entry)
}

// Load reads the entry stored at path.
func Load(path string) (*Entry, error) {
	var entry Entry
	if err := storage.LoadEncoded(path, &entry); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		if errors.Is(err, storage.ErrFormat) {
			return nil, &CorruptError{Path: path, Err: err}
		}
		return nil, err
	}

	// gob drops empty slices; normalise so loaded entries compare equal to
	// the ones that were saved.
	if entry.Diff == nil {
		entry.Diff = env.Changes{}
	}
	if entry.Sums == nil {
		entry.Sums = sums.Set{}
	}
	return &entry, nil
}

// ErrUnsafeClean is returned by Clean for a cache directory that holds the
// project or the home directory.
var ErrUnsafeClean = errors.New("refusing to remove cache directory")

// Clean removes the cache directory and everything in it. It refuses when
// dir is buildDir, an ancestor of it, or the home directory or one of its
// ancestors. Safe to call even if the directory does not exist.
func Clean(dir, buildDir string) error {
	if dir == "" {
		return nil
	}
	if err := checkRemovable(dir, buildDir); err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.RemoveAll(dir)
}

func checkRemovable(dir, buildDir string) error {
	target, err := resolve(dir)
	if err != nil {
		return err
	}
	if buildDir != "" {
		project, err := resolve(buildDir)
		if err != nil {
			return err
		}
		if within(target, project) {
			return fmt.Errorf("%w %s: it contains the project at %s", ErrUnsafeClean, dir, buildDir)
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if h, err := resolve(home); err == nil && within(target, h) {
			return fmt.Errorf("%w %s: it contains the home directory", ErrUnsafeClean, dir)
		}
	}
	return nil
}

// resolve returns the absolute path of p with symlinks evaluated where the
// path exists.
func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// within reports whether path is dir itself or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
