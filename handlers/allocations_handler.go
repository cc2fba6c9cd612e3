package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/midburn/spark-admin/middleware"
	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/services/allocations"
	"github.com/midburn/spark-admin/services/audit"
	"github.com/midburn/spark-admin/utils"
	"go.uber.org/zap"
)

// PresaleService is the presale quota admin page
type PresaleService interface {
	Load(ctx context.Context, session *models.Session, groupType models.GroupType) (*allocations.View, error)
	Stage(userID, groupID int, patch models.GroupPatch) error
	Pending(userID int) map[int]models.GroupPatch
	Discard(userID int)
	Commit(ctx context.Context, userID int) (int, *audit.LastAudit, error)
}

// DGSService is the read-only DGS allocations page
type DGSService interface {
	Load(ctx context.Context, session *models.Session, groupType models.GroupType) (*allocations.View, error)
}

// CommitResponse is the response body of a presale commit
type CommitResponse struct {
	Committed bool                      `json:"committed"`
	LastAudit *audit.LastAudit          `json:"last_audit"`
	Pending   map[int]models.GroupPatch `json:"pending"`
}

// AllocationsHandler handles the allocation admin pages
type AllocationsHandler struct {
	presale  PresaleService
	dgs      DGSService
	loginURL string
	logger   *zap.Logger
}

// NewAllocationsHandler creates a new AllocationsHandler
func NewAllocationsHandler(presale PresaleService, dgs DGSService, loginURL string, logger *zap.Logger) *AllocationsHandler {
	return &AllocationsHandler{
		presale:  presale,
		dgs:      dgs,
		loginURL: loginURL,
		logger:   logger,
	}
}

// HandleLoadPresale handles GET /api/v1/allocations/presale/{groupType}
func (h *AllocationsHandler) HandleLoadPresale(w http.ResponseWriter, r *http.Request) {
	h.load(w, r, h.presale.Load)
}

// HandleLoadDGS handles GET /api/v1/allocations/dgs/{groupType}
func (h *AllocationsHandler) HandleLoadDGS(w http.ResponseWriter, r *http.Request) {
	h.load(w, r, h.dgs.Load)
}

type loadFunc func(ctx context.Context, session *models.Session, groupType models.GroupType) (*allocations.View, error)

func (h *AllocationsHandler) load(w http.ResponseWriter, r *http.Request, load loadFunc) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	groupType, err := models.ParseGroupType(chi.URLParam(r, "groupType"))
	if err != nil {
		HandleServiceError(w, services.WrapValidation(err.Error(), services.ErrInvalidGroupType), h.loginURL, h.logger)
		return
	}

	view, err := load(r.Context(), session, groupType)
	if err != nil {
		HandleServiceError(w, err, h.loginURL, h.logger)
		return
	}

	_ = utils.WriteOK(w, view)
}

// HandleStageChange handles PUT /api/v1/allocations/presale/changes/{groupID}
func (h *AllocationsHandler) HandleStageChange(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	groupID, err := strconv.Atoi(chi.URLParam(r, "groupID"))
	if err != nil || groupID <= 0 {
		HandleServiceError(w, services.ErrInvalidGroupID, h.loginURL, h.logger)
		return
	}

	var patch models.GroupPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.presale.Stage(session.LoggedUser.ID, groupID, patch); err != nil {
		HandleServiceError(w, err, h.loginURL, h.logger)
		return
	}

	_ = utils.WriteOK(w, h.presale.Pending(session.LoggedUser.ID))
}

// HandlePendingChanges handles GET /api/v1/allocations/presale/changes
func (h *AllocationsHandler) HandlePendingChanges(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	_ = utils.WriteOK(w, h.presale.Pending(session.LoggedUser.ID))
}

// HandleDiscardChanges handles DELETE /api/v1/allocations/presale/changes
func (h *AllocationsHandler) HandleDiscardChanges(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.presale.Discard(session.LoggedUser.ID)
	utils.WriteNoContent(w)
}

// HandleCommit handles POST /api/v1/allocations/presale/commit. A failed save
// answers 502 and leaves the staged edits in place for a retry.
func (h *AllocationsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	userID := session.LoggedUser.ID

	submitted, last, err := h.presale.Commit(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, h.loginURL, h.logger)
		return
	}

	h.logger.Debug("presale commit handled",
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Int("user_id", userID),
		zap.Int("submitted", submitted))

	_ = utils.WriteOK(w, CommitResponse{
		Committed: submitted > 0,
		LastAudit: last,
		Pending:   h.presale.Pending(userID),
	})
}

func (h *AllocationsHandler) session(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		h.logger.Error("session not found in context",
			zap.String("request_id", chimw.GetReqID(r.Context())))
		_ = utils.WriteUnauthorized(w, "Authentication required", h.loginURL)
		return nil, false
	}
	return session, true
}
