package regulatory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReservationStatus tracks the pre-approval state machine
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationApproved ReservationStatus = "approved"
	ReservationRejected ReservationStatus = "rejected"
	ReservationConsumed ReservationStatus = "consumed"
	ReservationExpired  ReservationStatus = "expired"
)

// IsTerminal returns true when no further transition is possible
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationRejected || s == ReservationConsumed || s == ReservationExpired
}

// Reservation gates a transaction that tripped a trigger rule: the teller
// records what the customer wants to do, a reviewer approves or rejects, and
// an approved reservation is consumed when its report is emitted.
type Reservation struct {
	shared.BranchAggregateRoot
	ReservationNo string            `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID    string            `gorm:"type:varchar(40);not null;index:idx_reservation_customer"`
	CustomerName  string            `gorm:"type:varchar(200);not null"`
	ReportType    ReportType        `gorm:"type:varchar(20);not null;index:idx_reservation_customer"`
	CurrencyCode  string            `gorm:"type:varchar(3);not null"`
	Direction     exchange.Direction `gorm:"type:varchar(10);not null"`
	PaymentMethod exchange.PaymentMethod `gorm:"type:varchar(10);not null"`
	// LocalAmount is the requested THB volume the approval covers
	LocalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	// CapturedFields is the JSON snapshot of supplementary values collected
	// for the report form, keyed by catalogue field name
	CapturedFields  map[string]any    `gorm:"type:jsonb;serializer:json"`
	Status          ReservationStatus `gorm:"type:varchar(10);not null;default:'pending';index"`
	OperatorID      uuid.UUID         `gorm:"type:uuid;not null"`
	ReviewerID      *uuid.UUID        `gorm:"type:uuid"`
	ReviewerComment string            `gorm:"type:varchar(500)"`
	DecidedAt       *time.Time
	ConsumedAt      *time.Time
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservationInput carries the values for a new reservation
type NewReservationInput struct {
	ReservationNo  string
	BranchID       uuid.UUID
	CustomerID     string
	CustomerName   string
	ReportType     ReportType
	CurrencyCode   string
	Direction      exchange.Direction
	PaymentMethod  exchange.PaymentMethod
	LocalAmount    decimal.Decimal
	CapturedFields map[string]any
	OperatorID     uuid.UUID
}

// NewReservation creates a pending reservation
func NewReservation(in NewReservationInput) (*Reservation, error) {
	if in.ReservationNo == "" {
		return nil, shared.NewDomainError("INVALID_RESERVATION_NO", "Reservation number cannot be empty")
	}
	if in.BranchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if in.CustomerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if in.CustomerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if !in.ReportType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", fmt.Sprintf("Unknown report type %q", in.ReportType))
	}
	if !in.Direction.IsCustomerFacing() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Reservations cover customer-facing transactions only")
	}
	if !in.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", in.PaymentMethod))
	}
	if in.LocalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Requested amount must be positive")
	}
	if in.OperatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID is required")
	}

	fields := in.CapturedFields
	if fields == nil {
		fields = make(map[string]any)
	}

	res := &Reservation{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(in.BranchID, in.OperatorID),
		ReservationNo:       in.ReservationNo,
		CustomerID:          in.CustomerID,
		CustomerName:        in.CustomerName,
		ReportType:          in.ReportType,
		CurrencyCode:        in.CurrencyCode,
		Direction:           in.Direction,
		PaymentMethod:       in.PaymentMethod,
		LocalAmount:         in.LocalAmount,
		CapturedFields:      fields,
		Status:              ReservationPending,
		OperatorID:          in.OperatorID,
	}

	res.AddDomainEvent(NewReservationCreatedEvent(res))

	return res, nil
}

// Approve moves pending → approved
func (r *Reservation) Approve(reviewerID uuid.UUID, comment string) error {
	return r.decide(ReservationApproved, reviewerID, comment)
}

// Reject moves pending → rejected
func (r *Reservation) Reject(reviewerID uuid.UUID, comment string) error {
	return r.decide(ReservationRejected, reviewerID, comment)
}

func (r *Reservation) decide(outcome ReservationStatus, reviewerID uuid.UUID, comment string) error {
	if r.Status != ReservationPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decide reservation in %s status", r.Status))
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer ID is required")
	}

	now := time.Now()
	previous := r.Status
	r.Status = outcome
	r.ReviewerID = &reviewerID
	r.ReviewerComment = comment
	r.DecidedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationDecidedEvent(r, previous))

	return nil
}

// Consume moves approved → consumed. Invoked once the report PDF has been
// emitted against this reservation.
func (r *Reservation) Consume() error {
	if r.Status != ReservationApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot consume reservation in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReservationConsumed
	r.ConsumedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationConsumedEvent(r))

	return nil
}

// Expire moves pending → expired. Invoked by the TTL sweeper.
func (r *Reservation) Expire() error {
	if r.Status != ReservationPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire reservation in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReservationExpired
	r.DecidedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationExpiredEvent(r))

	return nil
}

// IsPending returns true while the reservation awaits a decision
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationPending
}

// IsApproved returns true when the reservation can be consumed
func (r *Reservation) IsApproved() bool {
	return r.Status == ReservationApproved
}
