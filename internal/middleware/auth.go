package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rootv890/discovery-5/internal/auth"
	"github.com/rootv890/discovery-5/internal/models"
)

type ctxKey int

const claimsKey ctxKey = 0

// ClaimsFromCtx returns the authenticated user's claims, or nil if the
// request did not pass through RequireAuth.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"Unauthorized","data":[],"error":{"code":401,"message":"authentication required"}}`))
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"success":false,"message":"Forbidden","data":[],"error":{"code":403,"message":"insufficient permissions"}}`))
}

// RequireAuth verifies the Bearer token on the request and stores the
// claims in the request context for downstream handlers.
func RequireAuth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to admin users. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil {
			writeUnauthorized(w)
			return
		}
		if claims.Role != models.RoleAdmin {
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireModerator gates a route to admins and curators. Must run after
// RequireAuth.
func RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil {
			writeUnauthorized(w)
			return
		}
		if claims.Role != models.RoleAdmin && claims.Role != models.RoleCurator {
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
