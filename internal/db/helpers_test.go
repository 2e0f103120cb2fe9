package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNullMappers(t *testing.T) {
	if v := NullIfEmpty(""); v != nil {
		t.Fatalf("NullIfEmpty(\"\") = %v, want nil", v)
	}
	if v := NullIfEmpty("x"); v != "x" {
		t.Fatalf("NullIfEmpty(\"x\") = %v", v)
	}
	if v := NullInt64(nil); v != nil {
		t.Fatalf("NullInt64(nil) = %v, want nil", v)
	}
	n := int64(7)
	if v := NullInt64(&n); v != int64(7) {
		t.Fatalf("NullInt64(&7) = %v", v)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	dbc, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer dbc.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	if err := WithTx(dbc, func(tx *sql.Tx) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	dbc, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer dbc.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(dbc, func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE bookings SET status = ? WHERE id = ?", "confirmed", 1)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
