package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/midburn/spark-admin/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	dbs    map[string]*sql.DB
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. dbs names every database
// the readiness check pings; nil entries are skipped.
func NewHealthHandler(dbs map[string]*sql.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		dbs:    dbs,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
// Readiness check - pings every configured database concurrently
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.dbs))
	for name, db := range h.dbs {
		if db != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var (
		g          errgroup.Group
		mu         sync.Mutex
		checks     = make(map[string]string, len(names))
		allHealthy = true
	)
	for _, name := range names {
		db := h.dbs[name]
		g.Go(func() error {
			status := "healthy"
			if err := checkDatabase(ctx, db); err != nil {
				h.logger.Warn("database health check failed",
					zap.String("database", name),
					zap.Error(err))
				status = "unhealthy"
			}

			mu.Lock()
			defer mu.Unlock()
			checks[name] = status
			if status != "healthy" {
				allHealthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// checkDatabase pings db and runs a trivial query
func checkDatabase(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	var result int
	return db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
}
