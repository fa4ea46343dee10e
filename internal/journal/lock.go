package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another mutating run holds the lock.
var ErrLocked = errors.New("another xbvrkit run is in progress")

// RunLock is an exclusive advisory file lock held for the duration of a
// mutating batch.
type RunLock struct {
	path string
	lock *flock.Flock
}

// AcquireRunLock takes the lock at path without blocking.
func AcquireRunLock(path string) (*RunLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &RunLock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string { return l.path }

// Release unlocks. Safe to call more than once.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
