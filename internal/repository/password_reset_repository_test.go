package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
)

var resetRowColumns = []string{"id", "user_id", "token_hash", "expires_at", "used", "created_at"}

func TestGenerateToken(t *testing.T) {
	token, hash, err := repository.GenerateToken()
	require.NoError(t, err)

	assert.Len(t, token, 64, "32 random bytes hex encoded")
	assert.Len(t, hash, 64)
	assert.NotEqual(t, token, hash)
	assert.Equal(t, repository.HashToken(token), hash)

	other, _, err := repository.GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestPasswordResetRepository_Create(t *testing.T) {
	repos, mock, cleanup := setupReposTest(t)
	defer cleanup()

	now := time.Now().UTC()
	token := models.NewPasswordResetToken(4, "digest", now, time.Hour)

	mock.ExpectQuery("INSERT INTO password_reset_tokens .+ RETURNING id").
		WithArgs(int64(4), "digest", now.Add(time.Hour), false, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	require.NoError(t, repos.ResetTokens.Create(context.Background(), token))
	assert.Equal(t, int64(10), token.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepository_FindValid(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid token", func(t *testing.T) {
		repos, mock, cleanup := setupReposTest(t)
		defer cleanup()

		mock.ExpectQuery("SELECT (.+) FROM password_reset_tokens WHERE token_hash").
			WithArgs("digest", false, now).
			WillReturnRows(sqlmock.NewRows(resetRowColumns).AddRow(1, 4, "digest", now.Add(time.Hour), false, now))

		token, err := repos.ResetTokens.FindValid(context.Background(), "digest", now)

		require.NoError(t, err)
		assert.Equal(t, int64(4), token.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown, used or expired token", func(t *testing.T) {
		repos, mock, cleanup := setupReposTest(t)
		defer cleanup()

		mock.ExpectQuery("SELECT (.+) FROM password_reset_tokens").WillReturnError(sql.ErrNoRows)

		token, err := repos.ResetTokens.FindValid(context.Background(), "digest", now)

		assert.Nil(t, token)
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})

	t.Run("expiry instant is rejected", func(t *testing.T) {
		repos, mock, cleanup := setupReposTest(t)
		defer cleanup()

		mock.ExpectQuery("SELECT (.+) FROM password_reset_tokens").
			WillReturnRows(sqlmock.NewRows(resetRowColumns).AddRow(1, 4, "digest", now, false, now.Add(-time.Hour)))

		_, err := repos.ResetTokens.FindValid(context.Background(), "digest", now)

		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		repos, mock, cleanup := setupReposTest(t)
		defer cleanup()

		mock.ExpectQuery("SELECT (.+) FROM password_reset_tokens").WillReturnError(errors.New("connection reset"))

		_, err := repos.ResetTokens.FindValid(context.Background(), "digest", now)

		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrTokenNotFound)
	})
}

func TestPasswordResetRepository_Consume(t *testing.T) {
	t.Run("first consumer wins", func(t *testing.T) {
		repos, mock, cleanup := setupReposTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE password_reset_tokens SET used").
			WithArgs(true, "digest", false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repos.ResetTokens.Consume(context.Background(), "digest"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already consumed", func(t *testing.T) {
		repos, mock, cleanup := setupReposTest(t)
		defer cleanup()

		mock.ExpectExec("UPDATE password_reset_tokens SET used").
			WithArgs(true, "digest", false).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repos.ResetTokens.Consume(context.Background(), "digest")
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})
}

func TestPasswordResetRepository_InvalidateForUser(t *testing.T) {
	repos, mock, cleanup := setupReposTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE password_reset_tokens SET used").
		WithArgs(true, int64(4), false).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repos.ResetTokens.InvalidateForUser(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
