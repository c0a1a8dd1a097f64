package internal

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const privilegedKey contextKey = "privileged"

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrivilegeMiddleware resolves the caller's entitlement from an optional
// bearer token. A missing or invalid token is not an error, the caller is
// simply not privileged.
func PrivilegeMiddleware(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			privileged := false
			if token, ok := bearerToken(r); ok {
				if claims, err := jwtMgr.ValidateToken(token); err == nil {
					privileged = jwtMgr.IsPrivileged(claims)
				}
			}
			ctx := context.WithValue(r.Context(), privilegedKey, privileged)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Privileged is the entitlement predicate consulted by handlers.
func Privileged(r *http.Request) bool {
	v, _ := r.Context().Value(privilegedKey).(bool)
	return v
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
