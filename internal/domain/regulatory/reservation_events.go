package regulatory

import (
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// Event types for reservation transitions and report emissions
const (
	EventReservationCreated  = "regulatory.reservation.created"
	EventReservationDecided  = "regulatory.reservation.decided"
	EventReservationConsumed = "regulatory.reservation.consumed"
	EventReservationExpired  = "regulatory.reservation.expired"
	EventReportEmitted       = "regulatory.report.emitted"
)

// ReservationCreatedEvent is raised when a teller submits a reservation
type ReservationCreatedEvent struct {
	shared.BaseDomainEvent
	ReservationNo string     `json:"reservation_no"`
	CustomerID    string     `json:"customer_id"`
	ReportType    ReportType `json:"report_type"`
	LocalAmount   string     `json:"local_amount"`
}

// NewReservationCreatedEvent creates a ReservationCreatedEvent
func NewReservationCreatedEvent(r *Reservation) *ReservationCreatedEvent {
	return &ReservationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReservationCreated, "Reservation", r.ID, r.BranchID),
		ReservationNo:   r.ReservationNo,
		CustomerID:      r.CustomerID,
		ReportType:      r.ReportType,
		LocalAmount:     r.LocalAmount.String(),
	}
}

// ReservationDecidedEvent is raised on approve or reject
type ReservationDecidedEvent struct {
	shared.BaseDomainEvent
	ReservationNo string            `json:"reservation_no"`
	FromStatus    ReservationStatus `json:"from_status"`
	ToStatus      ReservationStatus `json:"to_status"`
	Comment       string            `json:"comment,omitempty"`
}

// NewReservationDecidedEvent creates a ReservationDecidedEvent
func NewReservationDecidedEvent(r *Reservation, from ReservationStatus) *ReservationDecidedEvent {
	return &ReservationDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReservationDecided, "Reservation", r.ID, r.BranchID),
		ReservationNo:   r.ReservationNo,
		FromStatus:      from,
		ToStatus:        r.Status,
		Comment:         r.ReviewerComment,
	}
}

// ReservationConsumedEvent is raised when a report is emitted against the reservation
type ReservationConsumedEvent struct {
	shared.BaseDomainEvent
	ReservationNo string `json:"reservation_no"`
}

// NewReservationConsumedEvent creates a ReservationConsumedEvent
func NewReservationConsumedEvent(r *Reservation) *ReservationConsumedEvent {
	return &ReservationConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReservationConsumed, "Reservation", r.ID, r.BranchID),
		ReservationNo:   r.ReservationNo,
	}
}

// ReservationExpiredEvent is raised by the TTL sweeper
type ReservationExpiredEvent struct {
	shared.BaseDomainEvent
	ReservationNo string `json:"reservation_no"`
}

// NewReservationExpiredEvent creates a ReservationExpiredEvent
func NewReservationExpiredEvent(r *Reservation) *ReservationExpiredEvent {
	return &ReservationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReservationExpired, "Reservation", r.ID, r.BranchID),
		ReservationNo:   r.ReservationNo,
	}
}
