package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// AuthService handles account creation, sign-in and token refresh
type AuthService struct {
	store   repository.Transactor
	users   repository.UserRepository
	hasher  PasswordHashing
	tokens  TokenService
	authCfg *config.AuthSettings
}

// NewAuthService creates a new AuthService
func NewAuthService(
	store repository.Transactor,
	users repository.UserRepository,
	hasher PasswordHashing,
	tokens TokenService,
	authCfg *config.AuthSettings,
) *AuthService {
	return &AuthService{
		store:   store,
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		authCfg: authCfg,
	}
}

func emailTakenError() *utils.AppError {
	return utils.New(utils.ErrDuplicate, http.StatusBadRequest, constants.MsgEmailAlreadyRegistered)
}

// Signup registers a new account and returns an access token for it.
// The email check and the insert share one transaction; a concurrent signup
// that wins the race surfaces as the same duplicate error.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, utils.NewValidationError("role", "Role must be one of: user, admin")
	}
	if role == models.RoleAdmin && s.authCfg.RestrictAdminSignup {
		utils.LogAuth(constants.LogEventSignup, 0, req.Email, false, "admin signup restricted")
		return nil, utils.NewForbiddenError(constants.MsgAdminSignupDisabled)
	}

	email := strings.TrimSpace(req.Email)
	user := models.NewUser(strings.TrimSpace(req.Name), email, role)

	err = s.store.WithTx(ctx, func(repos repository.Repositories) error {
		exists, err := repos.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return emailTakenError()
		}

		passwordHash, salt, err := s.hasher.Hash(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
		user.Salt = salt

		if err := repos.Users.Create(ctx, user); err != nil {
			if utils.IsDuplicateError(err) {
				return emailTakenError()
			}
			return err
		}
		return nil
	})
	if err != nil {
		if utils.StatusCode(err) == http.StatusBadRequest {
			utils.LogAuth(constants.LogEventSignup, 0, email, false, "email already registered")
		}
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth(constants.LogEventSignup, user.ID, user.Email, true, "")

	return &models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   constants.TokenTypeBearer,
		ExpiresIn:   int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Signin verifies credentials and returns an access and refresh token pair.
// An unknown email and a wrong password produce the same error, and an
// unknown email still pays for one hash derivation.
func (s *AuthService) Signin(ctx context.Context, req *models.SigninRequest) (*models.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if utils.IsNotFoundError(err) {
			s.hasher.VerifyDummy(req.Password)
			utils.LogAuth(constants.LogEventSignin, 0, req.Email, false, "user not found")
			return nil, utils.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash, user.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth(constants.LogEventSignin, user.ID, user.Email, false, "invalid password")
		return nil, utils.NewInvalidCredentialsError()
	}

	response, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	utils.LogAuth(constants.LogEventSignin, user.ID, user.Email, true, "")
	return response, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The account must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, constants.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewInvalidTokenError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	utils.LogAuth(constants.LogEventRefresh, user.ID, user.Email, true, "")
	return response, nil
}

// Me returns the public profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *AuthService) issuePair(user *models.User) (*models.TokenResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
