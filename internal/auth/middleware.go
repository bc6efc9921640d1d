// Package auth provides authentication and authorization functionality for the Shopfront API.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// PrincipalContextKey is the context key for the authenticated principal.
const PrincipalContextKey ContextKey = constants.PrincipalContextKey

// Principal is the authenticated user a request acts as.
type Principal struct {
	ID    int64
	Name  string
	Email string
	Role  models.Role
}

// UserLookup resolves the user a token was issued to.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Authenticator verifies the session token of a request and resolves its
// subject against the user store. A token whose user no longer exists is
// rejected.
type Authenticator struct {
	tokens TokenValidator
	users  UserLookup
}

// NewAuthenticator creates a new Authenticator.
//
// Parameters:
//   - tokens: The validator for access tokens
//   - users: The store the token subject is resolved against
//
// Returns:
//   - A properly initialized Authenticator
func NewAuthenticator(tokens TokenValidator, users UserLookup) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
	}
}

// Authenticate extracts the access token from the Authorization header, or
// from the access_token cookie when no header is sent, and resolves the principal.
//
// Parameters:
//   - r: The HTTP request to authenticate
//
// Returns:
//   - The resolved principal
//   - An AppError describing why authentication failed
func (a *Authenticator) Authenticate(r *http.Request) (*Principal, error) {
	token, err := extractToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := a.tokens.ValidateToken(token, constants.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewInvalidTokenError()
		}
		return nil, err
	}

	return &Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		cookie, err := r.Cookie(constants.AccessTokenCookie)
		if err != nil || cookie.Value == "" {
			return "", utils.NewUnauthorizedError(constants.MsgAuthRequired)
		}
		return cookie.Value, nil
	}

	if !strings.HasPrefix(authHeader, constants.BearerTokenPrefix) {
		return "", utils.NewUnauthorizedError(constants.MsgAuthRequired)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, constants.BearerTokenPrefix))
	if token == "" {
		return "", utils.NewUnauthorizedError(constants.MsgAuthRequired)
	}
	return token, nil
}

// RequireAuth is a middleware that admits only authenticated requests and
// stores the principal in the request context.
func (a *Authenticator) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := a.Authenticate(r)
			if err != nil {
				log.Info().
					Err(err).
					Str(constants.RequestIDContextKey, middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Authentication failed")

				writeAuthError(w, err)
				return
			}

			log.Debug().
				Int64(constants.UserIDContextKey, principal.ID).
				Str(constants.RoleContextKey, principal.Role.String()).
				Str(constants.RequestIDContextKey, middleware.GetReqID(r.Context())).
				Msg("User authenticated")

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// writeAuthError renders authentication failures. Store failures stay 500;
// everything else is a 401.
func writeAuthError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		utils.ErrorFromAppError(w, appErr)
		return
	}
	utils.InternalServerError(w, err)
}

// WithPrincipal returns a copy of ctx carrying the principal.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(*Principal)
	return principal, ok && principal != nil
}

// GetPrincipal extracts the principal from the request context.
func GetPrincipal(r *http.Request) (*Principal, bool) {
	return PrincipalFromContext(r.Context())
}

// GetUserID extracts the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (int64, bool) {
	principal, ok := GetPrincipal(r)
	if !ok {
		return 0, false
	}
	return principal.ID, true
}

// IsAuthenticated checks if the request is authenticated.
func IsAuthenticated(r *http.Request) bool {
	_, ok := GetPrincipal(r)
	return ok
}
