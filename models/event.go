package models

import "time"

// Event is one edition of the recurring event
type Event struct {
	ID            string     `json:"event_id" db:"event_id"`
	Name          string     `json:"name" db:"name"`
	FormerEventID string     `json:"former_event_id,omitempty" db:"former_event_id"`
	StartsAt      *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt        *time.Time `json:"ends_at,omitempty" db:"ends_at"`
}

// TableName returns the table name for the Event model
func (Event) TableName() string {
	return "events"
}
