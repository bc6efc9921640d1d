package repository_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
)

// setupRepositoryTest creates a postgres-dialect pool backed by sqlmock
func setupRepositoryTest(t *testing.T) (*database.Pool, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialect, err := database.DialectFor("postgres")
	require.NoError(t, err)

	return database.NewPool(db, dialect), mock, func() {
		db.Close()
	}
}

// setupReposTest binds every repository to a mocked pool
func setupReposTest(t *testing.T) (repository.Repositories, sqlmock.Sqlmock, func()) {
	pool, mock, cleanup := setupRepositoryTest(t)
	return repository.New(pool), mock, cleanup
}
