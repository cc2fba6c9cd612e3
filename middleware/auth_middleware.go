package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/utils"
	"go.uber.org/zap"
)

// SessionResolver resolves a presented token to a session
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// AuthMiddleware provides session middleware functionality
type AuthMiddleware struct {
	resolver   SessionResolver
	cookieName string
	loginURL   string
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver SessionResolver, cookieName, loginURL string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		cookieName: cookieName,
		loginURL:   loginURL,
		logger:     logger,
	}
}

// RequireSession rejects requests without a valid session token. On
// success the session and the raw token are added to the request context.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimw.GetReqID(ctx)

		token := ExtractToken(r, m.cookieName)
		if token == "" {
			m.logger.Warn("missing session token",
				zap.String("request_id", requestID))
			m.unauthorized(w, "Missing session")
			return
		}

		session, err := m.resolver.Authenticate(ctx, token)
		if err != nil {
			m.logger.Warn("session validation failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			m.unauthorized(w, "Invalid or expired session")
			return
		}

		ctx = WithSession(ctx, session)
		ctx = WithToken(ctx, token)

		m.logger.Debug("session established",
			zap.String("request_id", requestID),
			zap.Int("user_id", session.LoggedUser.ID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, message string) {
	_ = utils.WriteUnauthorized(w, message, m.loginURL)
}

// ExtractToken reads the session token from the Authorization header
// ("Bearer TOKEN") or, failing that, from the session cookie
func ExtractToken(r *http.Request, cookieName string) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
