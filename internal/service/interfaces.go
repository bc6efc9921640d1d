package service

import (
	"context"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/cache"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
)

// PasswordHashing hashes and verifies account passwords.
type PasswordHashing interface {
	Hash(password string) (string, string, error)
	Verify(password, encodedHash, encodedSalt string) (bool, error)
	VerifyDummy(password string)
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	auth.TokenIssuer
	auth.TokenValidator
}

// EmailQueue hands messages to the background worker.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, msg mail.Message) error
}

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string)
}

// CatalogCache caches public catalog reads.
type CatalogCache interface {
	Fetch(ctx context.Context, dest interface{}, loader cache.Loader, parts ...string) error
	Invalidate(ctx context.Context)
}
