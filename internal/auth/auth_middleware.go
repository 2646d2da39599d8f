package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// JWTAccessTokenMiddleware admits requests that carry a valid bearer token and
// stores its user id in the request context. The user record is not loaded.
func JWTAccessTokenMiddleware(jwtManager JWTManagerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
				writeJSONError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			userID, err := jwtManager.ValidateAccessToken(strings.TrimSpace(tokenString))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(user.ContextWithID(r.Context(), userID)))
		})
	}
}

// UserIDFromContext returns the id stored by JWTAccessTokenMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	return user.IDFromContext(ctx)
}

// writeJSONError writes an error response in JSON format
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
