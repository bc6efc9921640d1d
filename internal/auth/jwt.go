package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// JWT errors
var (
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrMissingSecret        = errors.New("jwt secret is not configured")
)

// signingMethods lists the HMAC algorithms a deployment may configure.
var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Claims represents the claims in a session token
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed session tokens. Its settings are
// fixed when it is constructed.
type JWTService struct {
	secret        []byte
	method        *jwt.SigningMethodHMAC
	issuer        string
	expiry        time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewJWTService creates a new JWTService from the token settings.
// Only the configured algorithm is accepted during verification.
func NewJWTService(cfg *config.JWTSettings) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}

	alg := strings.ToUpper(cfg.Algorithm)
	if alg == "" {
		alg = constants.DefaultJWTAlgorithm
	}
	method, ok := signingMethods[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}

	return &JWTService{
		secret:        []byte(cfg.Secret),
		method:        method,
		issuer:        cfg.Issuer,
		expiry:        cfg.Expiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
	}, nil
}

// AccessTokenTTL returns the lifetime of access tokens.
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.expiry
}

// GenerateAccessToken issues an access token for the user.
func (s *JWTService) GenerateAccessToken(user *models.User) (string, error) {
	return s.generateToken(user, constants.TokenTypeAccess, s.expiry)
}

// GenerateRefreshToken issues a refresh token for the user.
func (s *JWTService) GenerateRefreshToken(user *models.User) (string, error) {
	return s.generateToken(user, constants.TokenTypeRefresh, s.refreshExpiry)
}

// generateToken creates a new token with the provided parameters
func (s *JWTService) generateToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, the expiry and the token type and
// returns the claims. Every failure is reported as an AppError.
func (s *JWTService) ValidateToken(tokenString, expectedType string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{s.method.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	if claims.TokenType != expectedType {
		return nil, utils.NewInvalidTokenError()
	}

	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}
