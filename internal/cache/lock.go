package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is the name of the build lock inside the cache directory.
const LockFileName = "build.lock"

// lockRetryDelay is how often a blocked build re-checks the lock.
const lockRetryDelay = 250 * time.Millisecond

// LockPath returns the path to the lock file for a cache directory.
func LockPath(dir string) string {
	return filepath.Join(dir, LockFileName)
}

// FileLock provides exclusive file-based locking using flock.
type FileLock struct {
	path string
	lock *flock.Flock
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created if it doesn't exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path, lock: flock.New(path)}
}

// Lock acquires an exclusive lock on the file.
// Blocks until the lock is acquired or ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	ok, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", l.path)
	}
	return nil
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	return l.lock.Unlock()
}
