package allocations

import (
	"context"
	"sync"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/services/aggregation"
	"github.com/midburn/spark-admin/services/audit"
	"go.uber.org/zap"
)

// CoordinatorFactory builds a fresh coordinator for one admin view
type CoordinatorFactory func() *aggregation.Coordinator

// View is a loaded admin table
type View struct {
	Groups    []*models.Group     `json:"groups"`
	Summary   aggregation.Summary `json:"summary"`
	LastAudit *audit.LastAudit    `json:"last_audit"`
}

// desk is the per-admin state of the presale page
type desk struct {
	workflow    *AuditedSaveWorkflow
	coordinator *aggregation.Coordinator
}

// PresaleAdmin serves the presale allocations page. Every logged user gets
// their own edit buffer.
type PresaleAdmin struct {
	groups         repositories.GroupsRepository
	trail          AuditTrail
	newCoordinator CoordinatorFactory
	logger         *zap.Logger

	mu    sync.Mutex
	desks map[int]*desk
}

// NewPresaleAdmin creates a new PresaleAdmin instance
func NewPresaleAdmin(groups repositories.GroupsRepository, trail AuditTrail, newCoordinator CoordinatorFactory, logger *zap.Logger) *PresaleAdmin {
	return &PresaleAdmin{
		groups:         groups,
		trail:          trail,
		newCoordinator: newCoordinator,
		logger:         logger,
		desks:          make(map[int]*desk),
	}
}

func (p *PresaleAdmin) desk(userID int) *desk {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.desks[userID]
	if !ok {
		d = &desk{
			workflow: NewAuditedSaveWorkflow(NewEditBuffer(), p.groups, p.trail,
				models.AuditTypePresaleAllocationsAdmin, p.logger.With(zap.Int("user_id", userID))),
			coordinator: p.newCoordinator(),
		}
		p.desks[userID] = d
	}
	return d
}

// Load (re)opens the presale table for groupType. Unsaved edits of the
// logged user are discarded. The aggregation run is claimed before the
// groups are fetched, so when the same user opens another table meanwhile
// this load returns its groups with default metrics.
func (p *PresaleAdmin) Load(ctx context.Context, session *models.Session, groupType models.GroupType) (*View, error) {
	d := p.desk(session.LoggedUser.ID)
	d.workflow.Buffer().Discard()
	run := d.coordinator.Begin()

	groups, err := p.groups.GetAllGroups(ctx, groupType, session.FormerEventID)
	if err != nil {
		return nil, services.WrapInternal("failed to load groups", err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	if !d.coordinator.AggregateAll(ctx, run, groups, session.FormerEventID) {
		p.logger.Debug("presale load superseded",
			zap.Int("user_id", session.LoggedUser.ID),
			zap.String("group_type", string(groupType)))
	}

	latest, err := p.trail.Latest(ctx, models.AuditTypePresaleAllocationsAdmin)
	if err != nil {
		p.logger.Warn("failed to load latest audit", zap.Error(err))
	}

	return &View{
		Groups:    groups,
		Summary:   aggregation.Summarize(groups),
		LastAudit: latest,
	}, nil
}

// Stage records a quota change for groupID in the user's buffer
func (p *PresaleAdmin) Stage(userID, groupID int, patch models.GroupPatch) error {
	return p.desk(userID).workflow.Buffer().Stage(groupID, patch)
}

// Pending returns the user's unsaved changes
func (p *PresaleAdmin) Pending(userID int) map[int]models.GroupPatch {
	return p.desk(userID).workflow.Buffer().Pending()
}

// Discard drops the user's unsaved changes
func (p *PresaleAdmin) Discard(userID int) {
	p.desk(userID).workflow.Buffer().Discard()
}

// Commit saves the user's changes. It returns the number of submitted
// patches and the refreshed latest audit.
func (p *PresaleAdmin) Commit(ctx context.Context, userID int) (int, *audit.LastAudit, error) {
	return p.desk(userID).workflow.Commit(ctx, userID)
}

// Release drops the user's desk along with any unsaved changes
func (p *PresaleAdmin) Release(userID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.desks, userID)
}
