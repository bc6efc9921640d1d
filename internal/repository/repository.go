// Package repository implements persistence for users, reset tokens, the
// catalog, carts and orders on top of database/sql.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repositories groups the repositories bound to one DBTX.
type Repositories struct {
	Users       UserRepository
	ResetTokens PasswordResetRepository
	Products    ProductRepository
	Carts       CartRepository
	Orders      OrderRepository
}

// New binds every repository to db, which may be the pool or a transaction.
func New(db database.DBTX) Repositories {
	return Repositories{
		Users:       NewUserRepository(db),
		ResetTokens: NewPasswordResetRepository(db),
		Products:    NewProductRepository(db),
		Carts:       NewCartRepository(db),
		Orders:      NewOrderRepository(db),
	}
}

// Transactor runs a unit of work against repositories sharing one transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}

// Store exposes pool-bound repositories and scoped transactions.
type Store struct {
	Repositories
	pool *database.Pool
}

// NewStore creates a Store on the pool.
func NewStore(pool *database.Pool) *Store {
	return &Store{
		Repositories: New(pool),
		pool:         pool,
	}
}

// WithTx runs fn with repositories bound to a new transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	return s.pool.Transaction(ctx, func(tx *database.Tx) error {
		return fn(New(tx))
	})
}

// expectOneRow converts a zero-row update or delete into a not found error.
func expectOneRow(result sql.Result, notFoundMessage string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundMessageError(notFoundMessage)
	}
	return nil
}
