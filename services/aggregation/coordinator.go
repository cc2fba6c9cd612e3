package aggregation

import (
	"context"
	"sync"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AllocationSource fetches ticket allocations for many groups in one call
type AllocationSource interface {
	GetGroupsAllocations(ctx context.Context, groupIDs []int) ([]models.Allocation, error)
}

// Coordinator fans metric fetches out over a list of groups and writes the
// results back into them. A coordinator belongs to one view: starting a new
// run supersedes the previous one and its late results are dropped.
type Coordinator struct {
	metrics     *Aggregator
	allocations AllocationSource
	limit       int
	logger      *zap.Logger

	mu         sync.Mutex
	generation uint64
}

// NewCoordinator creates a new Coordinator. limit bounds the number of
// in-flight fetches; 0 means unlimited.
func NewCoordinator(metrics *Aggregator, allocations AllocationSource, limit int, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		metrics:     metrics,
		allocations: allocations,
		limit:       limit,
		logger:      logger,
	}
}

// Begin claims a new run, superseding every earlier one. Callers claim the
// run before fetching the groups they will aggregate, so a view that was
// opened earlier can never supersede one opened later.
func (c *Coordinator) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	return c.generation
}

// AggregateAll computes members count, current tickets, former tickets and
// allocations for every group. It returns once every fetch has settled,
// reporting whether run is still the current one. A run superseded before
// it starts issues no fetch.
func (c *Coordinator) AggregateAll(ctx context.Context, run uint64, groups []*models.Group, formerEventID string) bool {
	if !c.start(run, groups) {
		c.logger.Debug("skipped superseded run", zap.Uint64("run", run))
		return false
	}
	g := c.newGroup()

	for _, group := range groups {
		c.goMembers(ctx, g, run, group)
		c.goTickets(ctx, g, run, group)
		if formerEventID != "" {
			g.Go(func() error {
				tickets := c.metrics.Tickets(ctx, group.ID, formerEventID)
				c.apply(run, func() { group.FormerTickets = tickets })
				return nil
			})
		}
	}

	if len(groups) > 0 {
		g.Go(func() error {
			c.loadAllocations(ctx, run, groups)
			return nil
		})
	}

	_ = g.Wait()

	current := !c.superseded(run)
	c.logger.Debug("aggregated groups",
		zap.Int("groups", len(groups)),
		zap.Uint64("run", run),
		zap.Bool("superseded", !current))
	return current
}

// AggregateCurrent computes only members count and current tickets
func (c *Coordinator) AggregateCurrent(ctx context.Context, run uint64, groups []*models.Group) bool {
	if !c.start(run, groups) {
		c.logger.Debug("skipped superseded run", zap.Uint64("run", run))
		return false
	}
	g := c.newGroup()

	for _, group := range groups {
		c.goMembers(ctx, g, run, group)
		c.goTickets(ctx, g, run, group)
	}

	_ = g.Wait()
	return !c.superseded(run)
}

func (c *Coordinator) goMembers(ctx context.Context, g *errgroup.Group, run uint64, group *models.Group) {
	g.Go(func() error {
		count := c.metrics.MembersCount(ctx, group.ID)
		c.apply(run, func() { group.MembersCount = count })
		return nil
	})
}

func (c *Coordinator) goTickets(ctx context.Context, g *errgroup.Group, run uint64, group *models.Group) {
	g.Go(func() error {
		tickets := c.metrics.Tickets(ctx, group.ID, "")
		c.apply(run, func() { group.Tickets = tickets })
		return nil
	})
}

func (c *Coordinator) loadAllocations(ctx context.Context, run uint64, groups []*models.Group) {
	ids := make([]int, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.ID)
	}

	allocations, err := services.WithTimeout(ctx, c.metrics.timeout, func(ctx context.Context) ([]models.Allocation, error) {
		return c.allocations.GetGroupsAllocations(ctx, ids)
	})
	if err != nil {
		c.logger.Warn("group allocations unavailable, using defaults",
			zap.Ints("group_ids", ids),
			zap.Error(services.WrapError(services.ErrorTypeAggregationItem, "allocations fetch failed", err)))
		return
	}

	byGroup := make(map[int][]models.Allocation, len(groups))
	for _, a := range allocations {
		byGroup[a.GroupID] = append(byGroup[a.GroupID], a)
	}

	c.apply(run, func() {
		for _, group := range groups {
			if found, ok := byGroup[group.ID]; ok {
				group.Allocations = found
			}
		}
	})
}

// start resets every group to its defaults unless run has been superseded
func (c *Coordinator) start(run uint64, groups []*models.Group) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if run != c.generation {
		return false
	}
	for _, group := range groups {
		group.ResetMetrics()
	}
	return true
}

// apply runs write under the coordinator lock unless run has been superseded
func (c *Coordinator) apply(run uint64, write func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if run != c.generation {
		return false
	}
	write()
	return true
}

func (c *Coordinator) superseded(run uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return run != c.generation
}

func (c *Coordinator) newGroup() *errgroup.Group {
	g := new(errgroup.Group)
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	return g
}
