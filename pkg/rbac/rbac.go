// Package rbac gates routes by the role carried in the access token.
package rbac

import (
	"net/http"

	"github.com/beautydb/backoffice/pkg/middleware"
	"github.com/beautydb/backoffice/pkg/response"
)

// HasRole allows only users with one of roles. AuthMiddleware must run first;
// without claims in the context the request is answered 401.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			if !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
