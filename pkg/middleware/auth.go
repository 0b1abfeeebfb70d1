package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/beautydb/backoffice/pkg/auth"
	"github.com/beautydb/backoffice/pkg/response"
)

type claimsKey struct{}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the token's claims in the request context. A missing token is 401,
// one that fails verification is 403.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			response.Forbidden(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the claims stored by AuthMiddleware.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// UserIDFromCtx returns the authenticated user's id.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	c, ok := ClaimsFromCtx(r.Context())
	if !ok {
		return 0, false
	}
	return c.UserID, true
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := ClaimsFromCtx(r.Context())
	if !ok {
		return "", false
	}
	return c.Role, true
}
