package handlers

import (
	"net/http"
	"net/url"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/midburn/spark-admin/config"
	"github.com/midburn/spark-admin/middleware"
	"go.uber.org/zap"
)

// UserStateReleaser drops the in-memory state kept for a logged user
type UserStateReleaser interface {
	Release(userID int)
}

// AuthHandler sends users to the external Spark login and clears the
// session cookie on logout. Tokens are issued by Spark, never here.
type AuthHandler struct {
	cfg       config.SessionConfig
	sessions  middleware.SessionResolver
	releasers []UserStateReleaser
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. On logout the state held by
// releasers for the presented session is dropped.
func NewAuthHandler(cfg config.SessionConfig, sessions middleware.SessionResolver, logger *zap.Logger, releasers ...UserStateReleaser) *AuthHandler {
	return &AuthHandler{
		cfg:       cfg,
		sessions:  sessions,
		releasers: releasers,
		logger:    logger,
	}
}

// HandleLogin handles GET /auth/login. An optional return_to query value is
// forwarded to the login page.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.loginURL(r.URL.Query().Get("return_to")), http.StatusFound)
}

// HandleLogout handles GET /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.release(r)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.SparkHost, "https"),
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Debug("session cookie cleared")
	http.Redirect(w, r, h.cfg.LoginURL, http.StatusFound)
}

// release drops the per-user state of the session behind the request, if any
func (h *AuthHandler) release(r *http.Request) {
	token := middleware.ExtractToken(r, h.cfg.CookieName)
	if token == "" || h.sessions == nil {
		return
	}

	session, err := h.sessions.Authenticate(r.Context(), token)
	if err != nil || session == nil {
		h.logger.Debug("logout without a valid session",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err))
		return
	}

	for _, releaser := range h.releasers {
		releaser.Release(session.LoggedUser.ID)
	}
	h.logger.Info("released user state", zap.Int("user_id", session.LoggedUser.ID))
}

func (h *AuthHandler) loginURL(returnTo string) string {
	if returnTo == "" {
		return h.cfg.LoginURL
	}
	parsed, err := url.Parse(h.cfg.LoginURL)
	if err != nil {
		h.logger.Warn("invalid login url", zap.String("login_url", h.cfg.LoginURL), zap.Error(err))
		return h.cfg.LoginURL
	}
	q := parsed.Query()
	q.Set("r", returnTo)
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
