package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// RequireRole is a middleware that admits only principals holding the role.
// It must run after Authenticator.RequireAuth; a request without a principal
// gets 401 and a principal with another role gets 403.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.GetPrincipal(r)
			if !ok {
				utils.Unauthorized(w, constants.MsgAuthRequired)
				return
			}

			if !hasRole(principal.Role, role) {
				log.Warn().
					Str("category", constants.LogCategoryAuth).
					Str("event", constants.LogEventRoleDenied).
					Int64(constants.UserIDContextKey, principal.ID).
					Str(constants.RoleContextKey, principal.Role.String()).
					Str("required_role", role.String()).
					Str("path", r.URL.Path).
					Msg("Insufficient role")

				utils.Forbidden(w, constants.MsgAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits only admins.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)
}

// hasRole reports whether a principal with role have satisfies required.
// Admins satisfy every requirement.
func hasRole(have, required models.Role) bool {
	switch have {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return required == models.RoleUser
	default:
		return false
	}
}
