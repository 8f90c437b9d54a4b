package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Auth guards a route group with bearer-token authentication. Every failure
// mode (missing header, malformed header, any token defect, unknown subject)
// collapses to the same 401 so the response never reveals which check failed.
// On success the resolved user is injected into the request context.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				unauthorized(w)
				return
			}

			user, err := authService.Authenticate(r.Context(), parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user injected by Auth.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": "could not validate credentials"})
}
