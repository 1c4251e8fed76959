package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xelth-com/storesync/internal/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// Caller is the authenticated principal behind a request
type Caller struct {
	ID      string
	Email   string
	StoreID string
	Admin   bool
}

// CanAccessStore reports whether the caller may read the given store
func (c Caller) CanAccessStore(storeID string) bool {
	return c.Admin || c.StoreID == storeID
}

// AuthMiddleware verifies JWT tokens signed with secret
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}
			if claims["type"] == "refresh" {
				http.Error(w, "Refresh token cannot be used for API access", http.StatusUnauthorized)
				return
			}

			// Add claims to context
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext extracts the caller set by AuthMiddleware
func CallerFromContext(ctx context.Context) (Caller, bool) {
	claims, ok := ctx.Value(UserContextKey).(jwt.MapClaims)
	if !ok {
		return Caller{}, false
	}
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	admin, _ := claims["admin"].(bool)
	return Caller{
		ID:      str("id"),
		Email:   str("email"),
		StoreID: str("store_id"),
		Admin:   admin,
	}, true
}
