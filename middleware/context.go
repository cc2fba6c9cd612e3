package middleware

import (
	"context"

	"github.com/midburn/spark-admin/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the resolved session
	SessionKey contextKey = "session"

	// TokenKey is the context key for the raw session token
	TokenKey contextKey = "session_token"
)

// GetSessionFromContext retrieves the session from context
func GetSessionFromContext(ctx context.Context) *models.Session {
	if val := ctx.Value(SessionKey); val != nil {
		if session, ok := val.(*models.Session); ok {
			return session
		}
	}
	return nil
}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetTokenFromContext retrieves the raw session token from context
func GetTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

// WithToken adds the raw session token to the context
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
