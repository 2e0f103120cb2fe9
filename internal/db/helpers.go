package db

import (
	"database/sql"
	"fmt"
)

// Querier is satisfied by both *sql.DB and *sql.Tx so repository
// statements can run inside or outside a transaction unchanged.
type Querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullInt64 maps an optional id to its SQL representation.
func NullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// WithTx runs fn inside a transaction, rolling back on error or panic.
// Every multi-step mutation in the core goes through here; the tx is
// never held across an external network call.
func WithTx(dbc *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := dbc.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
