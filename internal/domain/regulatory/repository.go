package regulatory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FieldRepository provides access to the report-field catalogue
type FieldRepository interface {
	FindAll(ctx context.Context) ([]FieldSpec, error)
	FindByReportType(ctx context.Context, reportType ReportType) ([]FieldSpec, error)
	Save(ctx context.Context, spec *FieldSpec) error
}

// RuleRepository provides access to trigger rules
type RuleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TriggerRule, error)
	FindAll(ctx context.Context) ([]TriggerRule, error)
	FindActiveByReportType(ctx context.Context, reportType ReportType) ([]TriggerRule, error)
	Save(ctx context.Context, rule *TriggerRule) error
}

// ReservationRepository provides access to reservations. Create enforces the
// single-pending invariant: at most one pending reservation per
// (customer_id, report_type), backed by a partial unique index.
type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	FindByReservationNo(ctx context.Context, reservationNo string) (*Reservation, error)
	FindPending(ctx context.Context, customerID string, reportType ReportType) (*Reservation, error)
	FindByCustomer(ctx context.Context, customerID string) ([]Reservation, error)
	FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]Reservation, error)
	Create(ctx context.Context, r *Reservation) error
	Save(ctx context.Context, r *Reservation) error
}

// ReportRepository provides access to emitted reports
type ReportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	FindByReportNo(ctx context.Context, reportNo string) (*Report, error)
	FindByReservation(ctx context.Context, reservationID uuid.UUID) (*Report, error)
	ListPDFPaths(ctx context.Context) ([]string, error)
	Save(ctx context.Context, r *Report) error
}

// AuditRepository is the append-only audit trail
type AuditRepository interface {
	Append(ctx context.Context, event *AuditEvent) error
	ListForEntity(ctx context.Context, entityKind, entityID string) ([]AuditEvent, error)
}
