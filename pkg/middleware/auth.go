package middleware

import (
	"context"
	"net/http"
	"strings"

	"billboard-report/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to the caller, reading the role fresh.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (utils.Session, error)
}

// AuthSession requires "Authorization: Bearer <token>" and stores the session in
// the request context. isUnauthenticated separates rejected tokens (401) from
// server failures (500).
func AuthSession(auth Authenticator, isUnauthenticated func(error) bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			token = strings.TrimSpace(token)

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if isUnauthenticated(err) {
					logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Invalid or expired session")
					return
				}
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), session)))
		})
	}
}

// Admin requires an authenticated session whose current role is admin.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := utils.SessionFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !session.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", session.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
