package models

import (
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// PasswordResetToken represents a stored password reset token.
// Only the SHA-256 digest of the token is persisted.
type PasswordResetToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewPasswordResetToken creates an unused token record expiring ttl after now.
func NewPasswordResetToken(userID int64, tokenHash string, now time.Time, ttl time.Duration) *PasswordResetToken {
	return &PasswordResetToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// TableName returns the database table name for the PasswordResetToken model.
func (t *PasswordResetToken) TableName() string {
	return constants.TablePasswordResetTokens
}

// IsValidAt reports whether the token can still authorize a reset at now.
// The expiry instant itself is already invalid.
func (t *PasswordResetToken) IsValidAt(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,new_password"`
}
