package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB opens and pings the MySQL pool. The handle is passed to
// services at construction; nothing in the core reaches for a global.
func OpenDB(dsn string) (*sql.DB, error) {
	dbc, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	dbc.SetMaxOpenConns(25)
	dbc.SetMaxIdleConns(25)
	dbc.SetConnMaxLifetime(10 * time.Minute)
	dbc.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := dbc.PingContext(ctx); err != nil {
		_ = dbc.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return dbc, nil
}
