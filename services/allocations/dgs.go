package allocations

import (
	"context"
	"sync"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/services"
	"github.com/midburn/spark-admin/services/aggregation"
	"go.uber.org/zap"
)

// DGSAdmin serves the read-only DGS allocations page, showing current
// members and tickets of every group of a type
type DGSAdmin struct {
	groups         repositories.GroupsRepository
	newCoordinator CoordinatorFactory
	logger         *zap.Logger

	mu           sync.Mutex
	coordinators map[int]*aggregation.Coordinator
}

// NewDGSAdmin creates a new DGSAdmin instance
func NewDGSAdmin(groups repositories.GroupsRepository, newCoordinator CoordinatorFactory, logger *zap.Logger) *DGSAdmin {
	return &DGSAdmin{
		groups:         groups,
		newCoordinator: newCoordinator,
		logger:         logger,
		coordinators:   make(map[int]*aggregation.Coordinator),
	}
}

// Load returns the groups of groupType with current metrics. A load
// superseded by a later one of the same user keeps default metrics.
func (d *DGSAdmin) Load(ctx context.Context, session *models.Session, groupType models.GroupType) (*View, error) {
	coordinator := d.coordinator(session.LoggedUser.ID)
	run := coordinator.Begin()

	groups, err := d.groups.GetAllGroups(ctx, groupType, session.FormerEventID)
	if err != nil {
		return nil, services.WrapInternal("failed to load groups", err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	current := coordinator.AggregateCurrent(ctx, run, groups)

	d.logger.Debug("loaded dgs groups",
		zap.String("group_type", string(groupType)),
		zap.Int("groups", len(groups)),
		zap.Bool("superseded", !current))

	return &View{
		Groups:  groups,
		Summary: aggregation.Summarize(groups),
	}, nil
}

func (d *DGSAdmin) coordinator(userID int) *aggregation.Coordinator {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.coordinators[userID]
	if !ok {
		c = d.newCoordinator()
		d.coordinators[userID] = c
	}
	return c
}

// Release drops the coordinator of userID
func (d *DGSAdmin) Release(userID int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.coordinators, userID)
}
