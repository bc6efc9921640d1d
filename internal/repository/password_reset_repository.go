package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

var (
	// ErrTokenNotFound covers unknown, used and expired tokens alike.
	ErrTokenNotFound = errors.New("token not found, used or expired")
)

// PasswordResetRepository handles database operations for password reset tokens.
// Only token digests are stored; see HashToken.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	FindValid(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error)
	Consume(ctx context.Context, tokenHash string) error
	InvalidateForUser(ctx context.Context, userID int64) (int64, error)
}

// SQLPasswordResetRepository is the database/sql implementation of PasswordResetRepository.
type SQLPasswordResetRepository struct {
	db database.DBTX
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db database.DBTX) PasswordResetRepository {
	return &SQLPasswordResetRepository{db: db}
}

// GenerateToken generates a secure random token and its SHA-256 digest.
// It returns the plain token (sent to the user) and its digest (stored).
func GenerateToken() (string, string, error) {
	tokenBytes := make([]byte, constants.ResetTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate token bytes: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	return token, HashToken(token), nil
}

// HashToken returns the hex SHA-256 digest under which a token is stored.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Create stores a new unused token record.
func (r *SQLPasswordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?)`

	id, err := database.InsertReturningID(ctx, r.db, query,
		token.UserID, token.TokenHash, token.ExpiresAt.UTC(), false, token.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	token.ID = id
	return nil
}

// FindValid returns the unused token with the given digest that is still
// strictly before its expiry at now. Any other outcome is ErrTokenNotFound.
func (r *SQLPasswordResetRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token_hash = ? AND used = ? AND expires_at > ?`

	token := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash, false, now.UTC()).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.Used,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to query password reset token: %w", err)
	}

	// The expiry comparison is repeated here against the caller's clock.
	if !token.IsValidAt(now) {
		return nil, ErrTokenNotFound
	}

	return token, nil
}

// Consume marks the token used if, and only if, it is still unused.
// When another request consumed it first no row changes and ErrTokenNotFound is returned.
func (r *SQLPasswordResetRepository) Consume(ctx context.Context, tokenHash string) error {
	query := "UPDATE password_reset_tokens SET used = ? WHERE token_hash = ? AND used = ?"

	result, err := r.db.ExecContext(ctx, query, true, tokenHash, false)
	if err != nil {
		return fmt.Errorf("failed to consume password reset token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after consuming token: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// InvalidateForUser marks every unused token of a user as used and reports how many changed.
func (r *SQLPasswordResetRepository) InvalidateForUser(ctx context.Context, userID int64) (int64, error) {
	query := "UPDATE password_reset_tokens SET used = ? WHERE user_id = ? AND used = ?"

	result, err := r.db.ExecContext(ctx, query, true, userID, false)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate password reset tokens for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after invalidating tokens: %w", err)
	}
	return rowsAffected, nil
}
