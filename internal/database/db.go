// Package database provides the connection pool, SQL dialects and scoped
// transactions used by the repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// Pool represents a database connection pool bound to a dialect.
type Pool struct {
	*sql.DB
	dialect Dialect
}

// NewPool wraps an open *sql.DB.
func NewPool(db *sql.DB, dialect Dialect) *Pool {
	return &Pool{DB: db, dialect: dialect}
}

// Connect opens and verifies a connection pool for the configured driver.
func Connect(ctx context.Context, cfg *config.AppConfig) (*Pool, error) {
	dialect, err := DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DBConnectionTimeout)
	defer cancel()

	log.Info().
		Str("driver", dialect.Name()).
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("Connecting to database")

	db, err := sql.Open(dialect.Name(), dialect.DSN(&cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	dialect.Configure(db, &cfg.Database)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("driver", dialect.Name()).Msg("Successfully connected to database")

	return NewPool(db, dialect), nil
}

// Dialect returns the SQL dialect of the pool.
func (p *Pool) Dialect() Dialect {
	return p.dialect
}

// ExecContext rebinds and executes a statement on the pool.
func (p *Pool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := p.DB.ExecContext(ctx, p.dialect.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(start), err)
	return result, err
}

// QueryContext rebinds and runs a query on the pool.
func (p *Pool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := p.DB.QueryContext(ctx, p.dialect.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(start), err)
	return rows, err
}

// QueryRowContext rebinds and runs a single-row query on the pool.
func (p *Pool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := p.DB.QueryRowContext(ctx, p.dialect.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(start), nil)
	return row
}

// Close closes the database connection pool
func (p *Pool) Close() {
	if p != nil && p.DB != nil {
		log.Info().Msg("Closing database connection pool")
		if err := p.DB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection pool")
		}
	}
}

// Transaction executes fn within a transaction. The transaction commits only
// when fn returns nil; it rolls back on error and on panic, re-raising the panic.
func (p *Pool) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := p.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{Tx: sqlTx, dialect: p.dialect}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database connection
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := p.DB.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}

// Tx is a transaction bound to the dialect of the pool that started it.
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// Dialect returns the SQL dialect of the transaction.
func (t *Tx) Dialect() Dialect {
	return t.dialect
}

// ExecContext rebinds and executes a statement inside the transaction.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := t.Tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(start), err)
	return result, err
}

// QueryContext rebinds and runs a query inside the transaction.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.Tx.QueryContext(ctx, t.dialect.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(start), err)
	return rows, err
}

// QueryRowContext rebinds and runs a single-row query inside the transaction.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.Tx.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(start), nil)
	return row
}
