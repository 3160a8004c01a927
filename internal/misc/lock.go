package misc

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrLocked is returned when another run still holds the lock file.
var ErrLocked = errors.New("already locked")

// RunLock is an advisory flock-based lock that prevents two collector runs
// from racing on the same snapshot.
type RunLock struct {
	f *os.File
}

// AcquireRunLock takes a non-blocking exclusive lock on path, creating the
// file if needed. A lock held by a still-running invocation yields ErrLocked.
func AcquireRunLock(path string) (*RunLock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("flock: %w", err)
	}
	return &RunLock{f: f}, nil
}

// Release drops the lock. The file itself is left in place; flock state dies
// with the descriptor, so a crashed run never leaves a stale lock.
func (l *RunLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	if err := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN); err != nil {
		_ = l.f.Close()
		return fmt.Errorf("unlock: %w", err)
	}
	return l.f.Close()
}
