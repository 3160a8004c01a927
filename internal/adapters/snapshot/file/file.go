// Package file implements the default on-disk snapshot store.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vshulcz/statprobe/internal/domain"
	"github.com/vshulcz/statprobe/internal/ports"
)

// Store persists the previous run's raw samples as a single JSON document.
type Store struct {
	path string
}

var _ ports.SnapshotStore = (*Store)(nil)

// New returns a store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot written by the previous run. A missing file is a
// valid first-run state and yields an empty snapshot; a file that cannot be
// parsed is an error the caller may degrade on.
func (s *Store) Load(_ context.Context) (domain.Snapshot, error) {
	f, err := os.Open(s.path) // #nosec G304
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Snapshot{}, nil
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var snap domain.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap == nil {
		snap = domain.Snapshot{}
	}
	return snap, nil
}

// Save replaces the stored snapshot wholesale. The write goes through a
// temp file and rename so a failed save leaves the old snapshot intact.
func (s *Store) Save(_ context.Context, snap domain.Snapshot) (retErr error) {
	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create tmp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	closed := false
	defer func() {
		if !closed {
			if cerr := tmp.Close(); cerr != nil && retErr == nil {
				retErr = fmt.Errorf("close tmp: %w", cerr)
			}
		}
		if cleanup {
			if err := os.Remove(tmpName); err != nil && retErr == nil {
				retErr = fmt.Errorf("remove tmp: %w", err)
			}
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close tmp: %w", err)
	}
	closed = true
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	cleanup = false
	return nil
}

// Close is a no-op for the file store.
func (s *Store) Close() error { return nil }
