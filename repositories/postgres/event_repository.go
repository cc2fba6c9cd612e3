package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/services"
	"go.uber.org/zap"
)

// EventRepository implements the repositories.EventsRepository interface
type EventRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB, logger *zap.Logger) repositories.EventsRepository {
	return &EventRepository{
		db:     db,
		logger: logger,
	}
}

// GetEvent retrieves an event by ID
func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	query := `
		SELECT event_id, name, former_event_id, starts_at, ends_at
		FROM events
		WHERE event_id = $1
	`

	var (
		event    models.Event
		formerID sql.NullString
		startsAt sql.NullTime
		endsAt   sql.NullTime
	)

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.Name,
		&formerID,
		&startsAt,
		&endsAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.WrapError(services.ErrorTypeNotFound, fmt.Sprintf("event not found: %s", eventID), err)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.FormerEventID = formerID.String
	if startsAt.Valid {
		event.StartsAt = &startsAt.Time
	}
	if endsAt.Valid {
		event.EndsAt = &endsAt.Time
	}

	return &event, nil
}
