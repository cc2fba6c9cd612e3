package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditType names an audited admin workflow
type AuditType string

const (
	AuditTypePresaleAllocationsAdmin AuditType = "PRESALE_ALLOCATIONS_ADMIN"
)

// AuditRecord is an append-only entry recording who last touched a workflow
type AuditRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Type      AuditType `json:"type" db:"type"`
	UpdatedBy int       `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the AuditRecord model
func (AuditRecord) TableName() string {
	return "audits"
}

// NewAuditRecord creates a new AuditRecord instance
func NewAuditRecord(auditType AuditType, updatedBy int) *AuditRecord {
	return &AuditRecord{
		ID:        uuid.New(),
		Type:      auditType,
		UpdatedBy: updatedBy,
		CreatedAt: time.Now().UTC(),
	}
}
