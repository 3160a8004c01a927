// Package postgres implements a Postgres-backed snapshot store with
// retryable operations.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/vshulcz/statprobe/internal/domain"
	"github.com/vshulcz/statprobe/internal/misc"
	"github.com/vshulcz/statprobe/internal/ports"
)

// Store keeps one row per (service, field) raw sample value.
type Store struct {
	db *sql.DB
}

var _ ports.SnapshotStore = (*Store)(nil)

var retryablePGCodes = map[string]struct{}{
	pgerrcode.ConnectionException:                           {},
	pgerrcode.ConnectionDoesNotExist:                        {},
	pgerrcode.ConnectionFailure:                             {},
	pgerrcode.SQLClientUnableToEstablishSQLConnection:       {},
	pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection: {},
	pgerrcode.TransactionResolutionUnknown:                  {},
	pgerrcode.ProtocolViolation:                             {},
	pgerrcode.SerializationFailure:                          {},
	pgerrcode.DeadlockDetected:                              {},
	pgerrcode.LockNotAvailable:                              {},
	pgerrcode.TooManyConnections:                            {},
	pgerrcode.AdminShutdown:                                 {},
	pgerrcode.CrashShutdown:                                 {},
	pgerrcode.CannotConnectNow:                              {},
	pgerrcode.QueryCanceled:                                 {},
}

// New returns a Store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn, verifies the connection, and applies migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	op := func() error {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		return Migrate(db)
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, IsRetryable, op); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	return New(db), nil
}

// Load reads the full snapshot. An empty table is a valid first-run state.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	const q = `SELECT service, key, name, vtype, units, value FROM samples ORDER BY service, id`

	var snap domain.Snapshot
	op := func() error {
		rows, err := s.db.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer func() {
			_ = rows.Close()
		}()

		out := domain.Snapshot{}
		for rows.Next() {
			var service string
			var e domain.SampleEntry
			if err := rows.Scan(&service, &e.Key, &e.Name, &e.Type, &e.Units, &e.Value); err != nil {
				return err
			}
			out[service] = append(out[service], e)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		snap = out
		return nil
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, IsRetryable, op); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save replaces the whole stored snapshot inside one transaction, so a
// failed save leaves the previous snapshot untouched.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	const qInsert = `INSERT INTO samples (service, key, name, vtype, units, value, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`

	attempt := func() error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if _, err := tx.ExecContext(ctx, `DELETE FROM samples`); err != nil {
			return err
		}
		for service, entries := range snap {
			for _, e := range entries {
				if _, err := tx.ExecContext(ctx, qInsert,
					service, e.Key, e.Name, string(e.Type), e.Units, e.Value); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}
	return misc.Retry(ctx, misc.DefaultBackoff, IsRetryable, attempt)
}

// Ping verifies the database connection using a short-lived context.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return misc.Retry(ctx, misc.DefaultBackoff, IsRetryable, func() error {
		return s.db.PingContext(ctx)
	})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsRetryable reports whether the error should trigger a retry according to
// Postgres semantics.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return isRetryablePGCode(string(pqe.Code))
	}
	return false
}

func isRetryablePGCode(code string) bool {
	if _, ok := retryablePGCodes[code]; ok {
		return true
	}
	// class 08: connection exceptions
	return strings.HasPrefix(code, "08")
}
