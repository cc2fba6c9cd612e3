package aggregation

import (
	"context"
	"time"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchTimeout bounds a single metric fetch when none is configured
const DefaultFetchTimeout = 10 * time.Second

// MemberSource is the part of the groups store the aggregator reads from
type MemberSource interface {
	GetCampMembers(ctx context.Context, groupID int) ([]models.Member, error)
	GetCampMembersTickets(ctx context.Context, groupID int, eventID string) ([]models.Ticket, error)
}

// Aggregator derives per-group metrics. It never returns an error: a failed
// fetch yields the metric's default value.
type Aggregator struct {
	source  MemberSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(source MemberSource, timeout time.Duration, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Aggregator{
		source:  source,
		timeout: timeout,
		logger:  logger,
	}
}

// MembersCount returns the number of approved managers of a group, or 0 when
// the members cannot be fetched
func (a *Aggregator) MembersCount(ctx context.Context, groupID int) int {
	members, err := services.WithTimeout(ctx, a.timeout, func(ctx context.Context) ([]models.Member, error) {
		return a.source.GetCampMembers(ctx, groupID)
	})
	if err != nil {
		a.logItemError(services.NewAggregationItemError(groupID, "members", err))
		return 0
	}

	count := 0
	for _, m := range members {
		if m.Status == models.MemberStatusApprovedManager {
			count++
		}
	}
	return count
}

// Tickets returns the tickets of a group's members, scoped to eventID when set.
// The result is never nil.
func (a *Aggregator) Tickets(ctx context.Context, groupID int, eventID string) []models.Ticket {
	tickets, err := services.WithTimeout(ctx, a.timeout, func(ctx context.Context) ([]models.Ticket, error) {
		return a.source.GetCampMembersTickets(ctx, groupID, eventID)
	})
	if err != nil {
		a.logItemError(services.NewAggregationItemError(groupID, "tickets", err).
			WithDetail("event_id", eventID))
		return []models.Ticket{}
	}
	if tickets == nil {
		return []models.Ticket{}
	}
	return tickets
}

// Aggregate computes both metrics of a group concurrently
func (a *Aggregator) Aggregate(ctx context.Context, groupID int, eventID string) models.GroupMetrics {
	var (
		g       errgroup.Group
		metrics models.GroupMetrics
	)

	g.Go(func() error {
		metrics.MembersCount = a.MembersCount(ctx, groupID)
		return nil
	})
	g.Go(func() error {
		metrics.Tickets = a.Tickets(ctx, groupID, eventID)
		return nil
	})
	_ = g.Wait()

	return metrics
}

func (a *Aggregator) logItemError(err *services.DomainError) {
	a.logger.Warn("group metric unavailable, using default",
		zap.Any("group_id", err.Details["group_id"]),
		zap.Any("fetch", err.Details["fetch"]),
		zap.Error(err))
}
