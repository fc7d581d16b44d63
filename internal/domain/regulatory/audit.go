package regulatory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies an audit trail entry
type EventKind string

const (
	AuditRuleEvaluated       EventKind = "rule_evaluated"
	AuditTriggerDecided      EventKind = "trigger_decided"
	AuditReservationCreated  EventKind = "reservation_created"
	AuditReservationApproved EventKind = "reservation_approved"
	AuditReservationRejected EventKind = "reservation_rejected"
	AuditReservationExpired  EventKind = "reservation_expired"
	AuditReservationConsumed EventKind = "reservation_consumed"
	AuditNumberAllocated     EventKind = "report_number_allocated"
	AuditReportEmitted       EventKind = "report_emitted"
	AuditEmissionFailed      EventKind = "report_emission_failed"
)

// AuditEvent is one row of the append-only regulatory audit trail
type AuditEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	At         time.Time `gorm:"not null;index"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EventKind  EventKind `gorm:"type:varchar(40);not null;index"`
	EntityKind string    `gorm:"type:varchar(40);not null;index:idx_audit_entity"`
	EntityID   string    `gorm:"type:varchar(60);not null;index:idx_audit_entity"`
	Before     string    `gorm:"type:jsonb"`
	After      string    `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (AuditEvent) TableName() string {
	return "audit_events"
}

// NewAuditEvent creates an audit entry; before/after are marshalled to JSON.
// Marshal failures degrade to empty blobs rather than losing the event.
func NewAuditEvent(actorID, branchID uuid.UUID, kind EventKind, entityKind, entityID string, before, after any) *AuditEvent {
	return &AuditEvent{
		ID:         uuid.New(),
		At:         time.Now(),
		ActorID:    actorID,
		BranchID:   branchID,
		EventKind:  kind,
		EntityKind: entityKind,
		EntityID:   entityID,
		Before:     marshalBlob(before),
		After:      marshalBlob(after),
	}
}

func marshalBlob(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
