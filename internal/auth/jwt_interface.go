package auth

import (
	"time"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

// TokenValidator verifies session tokens.
type TokenValidator interface {
	ValidateToken(tokenString, expectedType string) (*Claims, error)
}

// TokenIssuer issues session tokens.
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, error)
	GenerateRefreshToken(user *models.User) (string, error)
	AccessTokenTTL() time.Duration
}
