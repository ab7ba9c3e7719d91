package middleware

import (
	"net/http"

	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

// requireUser gates a route on a predicate over the authenticated
// account.
func requireUser(check func(*domain.User) bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				logger.Warn("User not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if !check(user) {
				logger.Warn("User not authorized for endpoint",
					zap.String("user_id", user.ID),
					zap.String("role", string(user.Role)),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits super admins and managers.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireUser((*domain.User).IsAdmin, logger)
}

// RequireSuperAdmin admits super admins only.
func RequireSuperAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireUser(func(u *domain.User) bool {
		return u.Role == domain.RoleSuperAdmin
	}, logger)
}

// RequireProductManagement admits accounts allowed to mutate the
// catalog: super admins, and managers holding the capability flag.
func RequireProductManagement(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireUser((*domain.User).CanManageProducts, logger)
}

// RequireUserManagement admits accounts allowed to administer the
// roster.
func RequireUserManagement(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireUser((*domain.User).CanManageUsers, logger)
}
