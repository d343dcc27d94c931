package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/user"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			role := user.Role(roleStr)
			if !user.HasPermission(role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePlantAccess limits plant managers to the plants listed in their plant_ids claim.
// It checks the plant_id query parameter; requests without one pass through.
func RequirePlantAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plantID := r.URL.Query().Get("plant_id")
		if plantID == "" {
			next.ServeHTTP(w, r)
			return
		}

		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		if role, _ := claims["role"].(string); user.Role(role) != user.RolePlantManager {
			next.ServeHTTP(w, r)
			return
		}

		allowed, ok := claims["plant_ids"].([]interface{})
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		for _, id := range allowed {
			if id == plantID {
				next.ServeHTTP(w, r)
				return
			}
		}
		response.Forbidden(w, fmt.Sprintf("No access to plant '%s'", plantID))
	})
}
