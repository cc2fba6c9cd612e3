package models

import (
	"fmt"
	"strings"
	"time"
)

// GroupType represents the kind of organizational unit
type GroupType string

const (
	GroupTypeCamp            GroupType = "camp"
	GroupTypeArtInstallation GroupType = "art_installation"
	GroupTypeProduction      GroupType = "prod_dep"
)

// ParseGroupType maps a route segment (camps, arts, prods) or a raw type to a GroupType
func ParseGroupType(s string) (GroupType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "camps", "camp":
		return GroupTypeCamp, nil
	case "arts", "art", "art_installation":
		return GroupTypeArtInstallation, nil
	case "prods", "prod", "prod_dep":
		return GroupTypeProduction, nil
	default:
		return "", fmt.Errorf("unknown group type: %q", s)
	}
}

// MemberStatus is the membership state of a user within a group
type MemberStatus string

const (
	MemberStatusApprovedManager MemberStatus = "approved_mgr"
	MemberStatusApproved        MemberStatus = "approved"
	MemberStatusPending         MemberStatus = "pending"
	MemberStatusPendingManager  MemberStatus = "pending_mgr"
	MemberStatusRejected        MemberStatus = "rejected"
	MemberStatusDeleted         MemberStatus = "deleted"
)

// Member is a user's membership in a group
type Member struct {
	UserID  int          `json:"user_id" db:"user_id"`
	GroupID int          `json:"group_id" db:"group_id"`
	Status  MemberStatus `json:"status" db:"status"`
}

// Ticket is a ticket held by a group member for one event
type Ticket struct {
	ID        int        `json:"ticket_id" db:"ticket_id"`
	UserID    int        `json:"holder_id" db:"holder_id"`
	GroupID   int        `json:"group_id" db:"group_id"`
	EventID   string     `json:"event_id" db:"event_id"`
	Status    string     `json:"ticket_status" db:"ticket_status"`
	EnteredAt *time.Time `json:"entrance_timestamp,omitempty" db:"entrance_timestamp"`
}

// Allocation is a ticket allocation granted to a group member
type Allocation struct {
	ID             int       `json:"id" db:"id"`
	GroupID        int       `json:"group_id" db:"group_id"`
	AllocatedTo    int       `json:"allocated_to" db:"allocated_to"`
	AllocationType string    `json:"allocation_type" db:"allocation_type"`
	EventID        string    `json:"event_id" db:"event_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Group is a camp, art installation or production department.
// MembersCount, Tickets, FormerTickets and Allocations are derived by the
// aggregation pipeline and are never nil once a run has started.
type Group struct {
	ID                  int       `json:"id" db:"id"`
	Type                GroupType `json:"__prototype" db:"__prototype"`
	Name                string    `json:"name" db:"name"`
	EventID             string    `json:"event_id" db:"event_id"`
	Status              string    `json:"status" db:"status"`
	PreSaleTicketsQuota int       `json:"pre_sale_tickets_quota" db:"pre_sale_tickets_quota"`

	MembersCount  int          `json:"members_count"`
	Tickets       []Ticket     `json:"tickets"`
	FormerTickets []Ticket     `json:"former_tickets"`
	Allocations   []Allocation `json:"allocations"`
}

// TableName returns the table name for the Group model
func (Group) TableName() string {
	return "camps"
}

// ResetMetrics assigns the documented defaults to every derived field
func (g *Group) ResetMetrics() {
	g.MembersCount = 0
	g.Tickets = []Ticket{}
	g.FormerTickets = []Ticket{}
	g.Allocations = []Allocation{}
}

// GroupMetrics is the result of aggregating a single group
type GroupMetrics struct {
	MembersCount int      `json:"members_count"`
	Tickets      []Ticket `json:"tickets"`
}

// GroupPatch is a partial update staged for one group.
// Only the presale quota is editable.
type GroupPatch struct {
	PreSaleTicketsQuota *int `json:"pre_sale_tickets_quota" validate:"required,gte=0"`
}

// QuotaPatch is one entry of a batch presale quota update
type QuotaPatch struct {
	ID                  int `json:"id"`
	PreSaleTicketsQuota int `json:"pre_sale_tickets_quota"`
}
