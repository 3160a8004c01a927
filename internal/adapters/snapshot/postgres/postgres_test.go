package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/vshulcz/statprobe/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Store, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	st := New(db)
	return db, mock, st, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	}
}

func TestStore_Load(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"service", "key", "name", "vtype", "units", "value"}).
		AddRow("memcached", "uptime", "mc_uptime", "uint32", "s", 4025.0).
		AddRow("memcached", "cmd_get", "mc_gets", "float", "req/s", 2048.0).
		AddRow("apache", "Uptime", "apache_uptime", "uint32", "s", 1234.0)
	mock.ExpectQuery(`SELECT service, key, name, vtype, units, value FROM samples`).
		WillReturnRows(rows)

	snap, err := st.Load(context.TODO())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := domain.Snapshot{
		"memcached": {
			{Key: "uptime", Name: "mc_uptime", Type: domain.TypeUint32, Units: "s", Value: 4025},
			{Key: "cmd_get", Name: "mc_gets", Type: domain.TypeFloat, Units: "req/s", Value: 2048},
		},
		"apache": {
			{Key: "Uptime", Name: "apache_uptime", Type: domain.TypeUint32, Units: "s", Value: 1234},
		},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("Load mismatch:\n got %+v\nwant %+v", snap, want)
	}
}

func TestStore_Load_Empty(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	mock.ExpectQuery(`SELECT service, key, name, vtype, units, value FROM samples`).
		WillReturnRows(sqlmock.NewRows([]string{"service", "key", "name", "vtype", "units", "value"}))

	snap, err := st.Load(context.TODO())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestStore_Save(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	snap := domain.Snapshot{
		"memcached": {
			{Key: "uptime", Name: "mc_uptime", Type: domain.TypeUint32, Units: "s", Value: 4025},
			{Key: "cmd_get", Name: "mc_gets", Type: domain.TypeFloat, Units: "req/s", Value: 2048},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM samples`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO samples`).
		WithArgs("memcached", "uptime", "mc_uptime", "uint32", "s", 4025.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO samples`).
		WithArgs("memcached", "cmd_get", "mc_gets", "float", "req/s", 2048.0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := st.Save(context.TODO(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestStore_Save_RollsBackOnInsertError(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	snap := domain.Snapshot{
		"memcached": {
			{Key: "uptime", Name: "mc_uptime", Type: domain.TypeUint32, Units: "s", Value: 4025},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM samples`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO samples`).
		WithArgs("memcached", "uptime", "mc_uptime", "uint32", "s", 4025.0).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := st.Save(context.TODO(), snap); err == nil {
		t.Fatal("expected error from failed insert")
	}
}

func TestStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	st := New(db)

	mock.ExpectPing()
	if err := st.Ping(context.TODO()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"pg serialization failure", &pq.Error{Code: pq.ErrorCode(pgerrcode.SerializationFailure)}, true},
		{"pg class 08", &pq.Error{Code: "08P01"}, true},
		{"pg syntax error", &pq.Error{Code: pq.ErrorCode(pgerrcode.SyntaxError)}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
