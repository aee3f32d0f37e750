package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dpereira/go-product-api/app/observability/metrics"
	"github.com/dpereira/go-product-api/internal/api"
	"github.com/dpereira/go-product-api/internal/types"
)

// Define typed context keys
type contextKey string

const UserIDKey contextKey = "userID"
const userKey contextKey = "user"

// Authenticate is middleware that resolves the bearer token into a fresh
// user record and stores it on the request context. Every failure mode
// (missing header, bad token, expired token, unknown subject) collapses to
// the same generic 401 so the reason is never leaked to the client.
func Authenticate(logger *slog.Logger, authService AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				unauthorized(ctx, w, r)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				l.WarnContext(ctx, "Invalid Authorization header format")
				unauthorized(ctx, w, r)
				return
			}

			user, err := authService.ResolveIdentity(ctx, headerParts[1])
			if err != nil {
				l.WarnContext(ctx, "Identity resolution failed", slog.Any("error", err))
				unauthorized(ctx, w, r)
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, user.ID)
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	metrics.Get().TokenRejectionsTotal.Add(ctx, 1)
	api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
}

// GetUserIDFromContext returns the authenticated user id set by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserFromContext returns the authenticated user record set by Authenticate.
func GetUserFromContext(ctx context.Context) (*types.User, bool) {
	user, ok := ctx.Value(userKey).(*types.User)
	return user, ok
}
