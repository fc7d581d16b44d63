package regulatory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// CheckTransactionRequest carries a candidate transaction's facts through the
// trigger dispatcher. TransactionID is set when the transaction has already
// been persisted; the decision is then recorded to the audit trail.
type CheckTransactionRequest struct {
	BranchID      uuid.UUID        `json:"branch_id" binding:"required"`
	ActorID       uuid.UUID        `json:"actor_id" binding:"required"`
	TransactionID *uuid.UUID       `json:"transaction_id,omitempty"`
	Facts         regulatory.Facts `json:"facts" binding:"required"`
}

// CreateReservationRequest opens the pre-approval workflow for a blocked
// transaction
type CreateReservationRequest struct {
	BranchID       uuid.UUID              `json:"branch_id" binding:"required"`
	CustomerID     string                 `json:"customer_id" binding:"required"`
	CustomerName   string                 `json:"customer_name" binding:"required"`
	ReportType     regulatory.ReportType  `json:"report_type" binding:"required,report_type"`
	CurrencyCode   string                 `json:"currency_code" binding:"required,len=3"`
	Direction      exchange.Direction     `json:"direction" binding:"required"`
	PaymentMethod  exchange.PaymentMethod `json:"payment_method" binding:"required"`
	LocalAmount    decimal.Decimal        `json:"local_amount" binding:"required"`
	CapturedFields map[string]any         `json:"captured_fields"`
	OperatorID     uuid.UUID              `json:"operator_id" binding:"required"`
}

// DecideReservationRequest records a reviewer's verdict
type DecideReservationRequest struct {
	Outcome    string    `json:"outcome" binding:"required,oneof=approved rejected"`
	ReviewerID uuid.UUID `json:"reviewer_id" binding:"required"`
	Comment    string    `json:"comment"`
}

// ReservationResponse is the outward view of a reservation
type ReservationResponse struct {
	ID              uuid.UUID                    `json:"id"`
	ReservationNo   string                       `json:"reservation_no"`
	BranchID        uuid.UUID                    `json:"branch_id"`
	CustomerID      string                       `json:"customer_id"`
	CustomerName    string                       `json:"customer_name"`
	ReportType      regulatory.ReportType        `json:"report_type"`
	CurrencyCode    string                       `json:"currency_code"`
	Direction       exchange.Direction           `json:"direction"`
	PaymentMethod   exchange.PaymentMethod       `json:"payment_method"`
	LocalAmount     decimal.Decimal              `json:"local_amount"`
	CapturedFields  map[string]any               `json:"captured_fields,omitempty"`
	Status          regulatory.ReservationStatus `json:"status"`
	OperatorID      uuid.UUID                    `json:"operator_id"`
	ReviewerID      *uuid.UUID                   `json:"reviewer_id,omitempty"`
	ReviewerComment string                       `json:"reviewer_comment,omitempty"`
	DecidedAt       *time.Time                   `json:"decided_at,omitempty"`
	ConsumedAt      *time.Time                   `json:"consumed_at,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// ToReservationResponse converts a reservation aggregate
func ToReservationResponse(r *regulatory.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		ReservationNo:   r.ReservationNo,
		BranchID:        r.BranchID,
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		ReportType:      r.ReportType,
		CurrencyCode:    r.CurrencyCode,
		Direction:       r.Direction,
		PaymentMethod:   r.PaymentMethod,
		LocalAmount:     r.LocalAmount,
		CapturedFields:  r.CapturedFields,
		Status:          r.Status,
		OperatorID:      r.OperatorID,
		ReviewerID:      r.ReviewerID,
		ReviewerComment: r.ReviewerComment,
		DecidedAt:       r.DecidedAt,
		ConsumedAt:      r.ConsumedAt,
		CreatedAt:       r.CreatedAt,
	}
}

// ReservationStatusItem is one row of a teller's pre-transaction lookup
type ReservationStatusItem struct {
	ReservationNo string                       `json:"reservation_no"`
	ReportType    regulatory.ReportType        `json:"report_type"`
	Status        regulatory.ReservationStatus `json:"status"`
	LocalAmount   decimal.Decimal              `json:"local_amount"`
	CreatedAt     time.Time                    `json:"created_at"`
}

// EmitReportRequest asks for a report PDF against an approved reservation
type EmitReportRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	OperatorID    uuid.UUID `json:"operator_id" binding:"required"`
}

// EmitReportResponse describes the emitted artifact
type EmitReportResponse struct {
	ReportNo   string                `json:"report_no"`
	ReportType regulatory.ReportType `json:"report_type"`
	PDFPath    string                `json:"pdf_path"`
	EmittedAt  time.Time             `json:"emitted_at"`
	// ReEmitted is true when the reservation already had a report and only
	// the PDF bytes were rewritten
	ReEmitted bool `json:"re_emitted"`
}

// FieldSpecResponse is the data-entry schema of one catalogue field
type FieldSpecResponse struct {
	FieldName     string               `json:"field_name"`
	DataType      regulatory.FieldType `json:"data_type"`
	MaxLength     int                  `json:"max_length,omitempty"`
	Required      bool                 `json:"required"`
	FieldGroup    string               `json:"field_group,omitempty"`
	FillOrder     int                  `json:"fill_order"`
	LabelZH       string               `json:"label_zh,omitempty"`
	LabelEN       string               `json:"label_en,omitempty"`
	LabelTH       string               `json:"label_th,omitempty"`
	FillPos       *string              `json:"fillpos,omitempty"`
	EmptyEncoding string               `json:"empty_encoding,omitempty"`
	IsCode        bool                 `json:"is_code"`
}

// ToFieldSpecResponse converts a catalogue row
func ToFieldSpecResponse(s *regulatory.FieldSpec) FieldSpecResponse {
	return FieldSpecResponse{
		FieldName:     s.FieldName,
		DataType:      s.DataType,
		MaxLength:     s.MaxLength,
		Required:      s.Required,
		FieldGroup:    s.FieldGroup,
		FillOrder:     s.FillOrder,
		LabelZH:       s.LabelZH,
		LabelEN:       s.LabelEN,
		LabelTH:       s.LabelTH,
		FillPos:       s.FillPos,
		EmptyEncoding: s.EmptyEncoding,
		IsCode:        s.IsCode,
	}
}

// AuditEventResponse is one audit trail row
type AuditEventResponse struct {
	ID         uuid.UUID            `json:"id"`
	At         time.Time            `json:"at"`
	ActorID    uuid.UUID            `json:"actor_id"`
	BranchID   uuid.UUID            `json:"branch_id"`
	EventKind  regulatory.EventKind `json:"event_kind"`
	EntityKind string               `json:"entity_kind"`
	EntityID   string               `json:"entity_id"`
	Before     string               `json:"before,omitempty"`
	After      string               `json:"after,omitempty"`
}

// ToAuditEventResponse converts an audit row
func ToAuditEventResponse(e *regulatory.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		ID:         e.ID,
		At:         e.At,
		ActorID:    e.ActorID,
		BranchID:   e.BranchID,
		EventKind:  e.EventKind,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Before:     e.Before,
		After:      e.After,
	}
}
