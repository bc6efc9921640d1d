package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T, dialect Dialect) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPool(mockDB, dialect), mock
}

// TestNilConnectionHandling tests handling of nil connections
func TestNilConnectionHandling(t *testing.T) {
	t.Run("Close with nil DB pointer", func(t *testing.T) {
		pool := &Pool{DB: nil}
		pool.Close()
	})

	t.Run("Close with nil pool", func(t *testing.T) {
		var pool *Pool
		pool.Close()
	})
}

func TestClose(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	pool := NewPool(mockDB, postgresDialect{})

	mock.ExpectClose()
	pool.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful transaction commits", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products SET stock").
			WithArgs(2, int64(1), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := pool.Transaction(ctx, func(tx *Tx) error {
			_, err := tx.ExecContext(ctx, "UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?", 2, int64(1), 2)
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin transaction failure", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectBegin().WillReturnError(errors.New("begin error"))

		err := pool.Transaction(ctx, func(tx *Tx) error { return nil })

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Function error rolls back", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		funcErr := errors.New("function error")
		err := pool.Transaction(ctx, func(tx *Tx) error { return funcErr })

		assert.Equal(t, funcErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback failure after function error", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("rollback error"))

		err := pool.Transaction(ctx, func(tx *Tx) error { return errors.New("function error") })

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to rollback transaction")
		assert.Contains(t, err.Error(), "function error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit failure", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit error"))

		err := pool.Transaction(ctx, func(tx *Tx) error { return nil })

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Panic rolls back and re-panics", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = pool.Transaction(ctx, func(tx *Tx) error { panic("boom") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()
		pool := NewPool(mockDB, postgresDialect{})

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		assert.NoError(t, pool.HealthCheck(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ping fails", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()
		pool := NewPool(mockDB, postgresDialect{})

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err = pool.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database health check failed")
	})

	t.Run("Unexpected result", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()
		pool := NewPool(mockDB, postgresDialect{})

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(2))

		err = pool.HealthCheck(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected result")
	})
}

func TestInsertReturningID(t *testing.T) {
	ctx := context.Background()

	t.Run("Postgres uses RETURNING", func(t *testing.T) {
		pool, mock := newMockPool(t, postgresDialect{})
		mock.ExpectQuery("INSERT INTO products .+ RETURNING id").
			WithArgs("Lamp").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

		id, err := InsertReturningID(ctx, pool, "INSERT INTO products (name) VALUES (?)", "Lamp")

		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SQLite uses LastInsertId", func(t *testing.T) {
		pool, mock := newMockPool(t, sqliteDialect{})
		mock.ExpectExec("INSERT INTO products").
			WithArgs("Lamp").
			WillReturnResult(sqlmock.NewResult(12, 1))

		id, err := InsertReturningID(ctx, pool, "INSERT INTO products (name) VALUES (?)", "Lamp")

		require.NoError(t, err)
		assert.Equal(t, int64(12), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert error", func(t *testing.T) {
		pool, mock := newMockPool(t, mysqlDialect{})
		mock.ExpectExec("INSERT INTO products").WillReturnError(errors.New("insert failed"))

		_, err := InsertReturningID(ctx, pool, "INSERT INTO products (name) VALUES (?)", "Lamp")

		assert.Error(t, err)
	})
}

func TestTxUsesDialect(t *testing.T) {
	ctx := context.Background()
	pool, mock := newMockPool(t, sqliteDialect{})
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(int64(1), int64(2), 3).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	var id int64
	err := pool.Transaction(ctx, func(tx *Tx) error {
		assert.Equal(t, "sqlite3", tx.Dialect().Name())
		var err error
		id, err = InsertReturningID(ctx, tx, "INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)", int64(1), int64(2), 3)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
