package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// PasswordResetService manages the reset token lifecycle:
// issued on request, validated on use, consumed exactly once.
type PasswordResetService struct {
	store        repository.Transactor
	tokens       repository.PasswordResetRepository
	hasher       PasswordHashing
	mailer       ResetMailer
	ttl          time.Duration
	singleActive bool
	now          func() time.Time
	generate     func() (string, string, error)
}

// PasswordResetConfig holds the reset policy.
type PasswordResetConfig struct {
	TTL               time.Duration
	SingleActiveToken bool
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	store repository.Transactor,
	tokens repository.PasswordResetRepository,
	hasher PasswordHashing,
	mailer ResetMailer,
	cfg PasswordResetConfig,
) *PasswordResetService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = constants.DefaultPasswordResetTTL
	}
	return &PasswordResetService{
		store:        store,
		tokens:       tokens,
		hasher:       hasher,
		mailer:       mailer,
		ttl:          ttl,
		singleActive: cfg.SingleActiveToken,
		now:          func() time.Time { return time.Now().UTC() },
		generate:     repository.GenerateToken,
	}
}

// Issue creates a reset token for the account registered under email.
// It returns an empty token and no error when no such account exists.
func (s *PasswordResetService) Issue(ctx context.Context, email string) (string, *models.User, error) {
	var (
		token string
		user  *models.User
	)

	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		found, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			if utils.IsNotFoundError(err) {
				return nil
			}
			return fmt.Errorf("failed to look up user: %w", err)
		}

		if s.singleActive {
			revoked, err := repos.ResetTokens.InvalidateForUser(ctx, found.ID)
			if err != nil {
				return err
			}
			if revoked > 0 {
				log.Debug().Int64("user_id", found.ID).Int64("revoked", revoked).Msg("Revoked earlier reset tokens")
			}
		}

		plain, digest, err := s.generate()
		if err != nil {
			return err
		}
		record := models.NewPasswordResetToken(found.ID, digest, s.now(), s.ttl)
		if err := repos.ResetTokens.Create(ctx, record); err != nil {
			return err
		}

		token = plain
		user = found
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RequestReset issues a token and emails the link. The outcome is the same
// whether or not the email is registered.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	token, user, err := s.Issue(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		utils.LogAuth(constants.LogEventResetRequest, 0, email, false, "unknown email")
		return nil
	}

	utils.LogAuth(constants.LogEventResetRequest, user.ID, user.Email, true, "")
	if s.mailer != nil {
		s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, token)
	}
	return nil
}

// Validate returns the stored record for token if it is unused and unexpired.
// Unknown, used and expired tokens all yield the same error.
func (s *PasswordResetService) Validate(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	if token == "" {
		return nil, utils.NewInvalidResetTokenError()
	}
	record, err := s.tokens.FindValid(ctx, repository.HashToken(token), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, utils.NewInvalidResetTokenError()
		}
		return nil, err
	}
	return record, nil
}

// ResetPassword sets a new password for the owner of token and consumes the
// token in the same transaction. If another request consumed the token first
// the password change is rolled back.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return utils.NewInvalidResetTokenError()
	}
	digest := repository.HashToken(token)

	var userID int64
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		record, err := repos.ResetTokens.FindValid(ctx, digest, s.now())
		if err != nil {
			return err
		}
		userID = record.UserID

		passwordHash, salt, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := repos.Users.ChangePassword(ctx, record.UserID, passwordHash, salt); err != nil {
			return err
		}

		return repos.ResetTokens.Consume(ctx, digest)
	})
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			utils.LogAuth(constants.LogEventResetComplete, userID, "", false, "invalid or expired token")
			return utils.NewInvalidResetTokenError()
		}
		return err
	}

	utils.LogAuth(constants.LogEventResetComplete, userID, "", true, "")
	return nil
}
