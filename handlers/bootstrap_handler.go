package handlers

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/midburn/spark-admin/middleware"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/services/bootstrap"
	"github.com/midburn/spark-admin/utils"
	"go.uber.org/zap"
)

// BootstrapService runs the two-phase startup for a session token
type BootstrapService interface {
	Initialize(ctx context.Context, token string) (*bootstrap.State, error)
}

// BootstrapHandler serves the startup payload of the admin client
type BootstrapHandler struct {
	service    BootstrapService
	cookieName string
	loginURL   string
	logger     *zap.Logger
}

// NewBootstrapHandler creates a new BootstrapHandler
func NewBootstrapHandler(service BootstrapService, cookieName, loginURL string, logger *zap.Logger) *BootstrapHandler {
	return &BootstrapHandler{
		service:    service,
		cookieName: cookieName,
		loginURL:   loginURL,
		logger:     logger,
	}
}

// HandleBootstrap handles GET /api/v1/bootstrap. The route is not behind
// RequireSession: phase 1 of the bootstrap establishes the session itself.
func (h *BootstrapHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	token := middleware.ExtractToken(r, h.cookieName)
	if token == "" {
		h.logger.Info("bootstrap without session token", zap.String("request_id", requestID))
		HandleServiceError(w, services.NewCookieError(services.ErrMissingSession), h.loginURL, h.logger)
		return
	}

	state, err := h.service.Initialize(ctx, token)
	if err != nil {
		HandleServiceError(w, err, h.loginURL, h.logger)
		return
	}

	h.logger.Debug("bootstrap served",
		zap.String("request_id", requestID),
		zap.Int("user_id", state.Session.LoggedUser.ID),
		zap.Int("allocation_groups", len(state.AllocationGroups)))

	_ = utils.WriteOK(w, state)
}
