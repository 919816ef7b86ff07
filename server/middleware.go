package server

import (
	"context"
	"net/http"
	"strings"

	"melodex/apperr"
	"melodex/core/auth"
)

type contextKey int

const claimsKey contextKey = iota

// claimsFrom extracts the authenticated claims from the request
// context, or nil when the request is unauthenticated.
func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// requireAuth checks for a valid Bearer access token and stores its
// claims in the request context.
func (h *APIHandler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, apperr.AuthenticationFailed("authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, apperr.AuthenticationFailed("invalid authorization header format"))
			return
		}

		claims, err := h.tokens.Parse(parts[1])
		if err != nil || claims.TokenType != auth.TokenTypeAccess {
			respondError(w, apperr.AuthenticationFailed("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requireAdmin is requireAuth plus a staff/superuser check.
func (h *APIHandler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || !claims.Admin() {
			respondError(w, apperr.Forbidden("administrator access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware sets permissive CORS headers and answers preflight
// requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
