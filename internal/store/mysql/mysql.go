// Package mysql implements store.Store over database/sql using
// github.com/go-sql-driver/mysql, with the same connect/ping/Close
// discipline a one-shot migration applier would use, adapted here into a
// long-lived handle for repeated DDL, inserts, and queries.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"holmes/internal/store"
)

func init() {
	store.Register(store.MySQL, Open)
}

// Store wraps a *sql.DB connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and pings it to verify reachability.
func Open(ctx context.Context, dsn string) (store.Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql store: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("mysql store: ping: %w; additionally failed to close: %v", err, closeErr)
		}
		return nil, fmt.Errorf("mysql store: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Exec runs a DDL/DML statement and returns rows affected.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Query runs a parameterized SELECT and returns its row iterator.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
