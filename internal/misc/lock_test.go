package misc

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRunLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.lock")

	l1, err := AcquireRunLock(path)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := AcquireRunLock(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second acquire: got %v, want ErrLocked", err)
	}

	if err := l1.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	l2, err := AcquireRunLock(path)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if err := l2.Release(); err != nil {
		t.Fatalf("release second: %v", err)
	}
}

func TestRunLock_BadPath(t *testing.T) {
	if _, err := AcquireRunLock(filepath.Join(t.TempDir(), "missing", "probe.lock")); err == nil {
		t.Fatal("expected error for unwritable lock path")
	}
}
