package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the query surface shared by Pool and Tx, so repositories run
// unchanged inside or outside a transaction. Queries use ? placeholders.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Dialect() Dialect
}

// Compile-time checks that both the pool and transactions satisfy DBTX.
var (
	_ DBTX = (*Pool)(nil)
	_ DBTX = (*Tx)(nil)
)

// InsertReturningID runs an INSERT and returns the generated primary key.
// Postgres uses RETURNING id; the other backends report LastInsertId.
func InsertReturningID(ctx context.Context, db DBTX, query string, args ...interface{}) (int64, error) {
	if db.Dialect().SupportsReturning() {
		var id int64
		if err := db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}
