package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database handle the stores execute queries against.
// Both *sql.DB and *sql.Tx satisfy it, so store implementations run
// unchanged inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
