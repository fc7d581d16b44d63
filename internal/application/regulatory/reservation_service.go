package regulatory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// ReservationService runs the pre-approval workflow for blocked transactions
type ReservationService struct {
	resRepo   regulatory.ReservationRepository
	auditRepo regulatory.AuditRepository
	registry  *regulatory.Registry
	now       func() time.Time
}

// NewReservationService creates a ReservationService
func NewReservationService(
	resRepo regulatory.ReservationRepository,
	auditRepo regulatory.AuditRepository,
	registry *regulatory.Registry,
) *ReservationService {
	return &ReservationService{
		resRepo:   resRepo,
		auditRepo: auditRepo,
		registry:  registry,
		now:       time.Now,
	}
}

// Create opens a pending reservation. At most one pending reservation may
// exist per (customer, report type); the check here is backed by a partial
// unique index, so a concurrent double create still fails cleanly.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error) {
	if existing, err := s.resRepo.FindPending(ctx, req.CustomerID, req.ReportType); err == nil && existing != nil {
		return nil, shared.ErrDuplicatePending
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if req.CapturedFields != nil {
		if ok, issues := s.registry.ValidateValues(req.ReportType, req.CapturedFields); !ok {
			return nil, invalidFieldsError(issues)
		}
	}

	res, err := regulatory.NewReservation(regulatory.NewReservationInput{
		ReservationNo:  s.generateReservationNo(),
		BranchID:       req.BranchID,
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		ReportType:     req.ReportType,
		CurrencyCode:   req.CurrencyCode,
		Direction:      req.Direction,
		PaymentMethod:  req.PaymentMethod,
		LocalAmount:    req.LocalAmount,
		CapturedFields: req.CapturedFields,
		OperatorID:     req.OperatorID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.Create(ctx, res); err != nil {
		return nil, err
	}

	s.audit(ctx, req.OperatorID, res, regulatory.AuditReservationCreated, nil)

	response := ToReservationResponse(res)
	return &response, nil
}

// Decide records a reviewer's approval or rejection
func (s *ReservationService) Decide(ctx context.Context, reservationID uuid.UUID, req DecideReservationRequest) (*ReservationResponse, error) {
	res, err := s.resRepo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	before := res.Status
	var kind regulatory.EventKind
	switch req.Outcome {
	case "approved":
		err = res.Approve(req.ReviewerID, req.Comment)
		kind = regulatory.AuditReservationApproved
	case "rejected":
		err = res.Reject(req.ReviewerID, req.Comment)
		kind = regulatory.AuditReservationRejected
	default:
		return nil, shared.NewDomainError("INVALID_OUTCOME", fmt.Sprintf("Unknown outcome %q", req.Outcome))
	}
	if err != nil {
		return nil, err
	}

	if err := s.resRepo.Save(ctx, res); err != nil {
		return nil, err
	}

	s.audit(ctx, req.ReviewerID, res, kind, before)

	response := ToReservationResponse(res)
	return &response, nil
}

// GetByID returns a single reservation
func (s *ReservationService) GetByID(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	res, err := s.resRepo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	response := ToReservationResponse(res)
	return &response, nil
}

// LookupStatus returns the customer's reservations for the teller's
// pre-transaction check. A pending row blocks new transactions for the
// customer until it is decided.
func (s *ReservationService) LookupStatus(ctx context.Context, customerID string) ([]ReservationStatusItem, error) {
	list, err := s.resRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	items := make([]ReservationStatusItem, 0, len(list))
	for i := range list {
		items = append(items, ReservationStatusItem{
			ReservationNo: list[i].ReservationNo,
			ReportType:    list[i].ReportType,
			Status:        list[i].Status,
			LocalAmount:   list[i].LocalAmount,
			CreatedAt:     list[i].CreatedAt,
		})
	}
	return items, nil
}

// ExpireOverdue sweeps pending reservations older than the TTL into expired.
// Returns the number of reservations expired; invoked by the scheduler.
func (s *ReservationService) ExpireOverdue(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)
	overdue, err := s.resRepo.FindPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range overdue {
		res := &overdue[i]
		if err := res.Expire(); err != nil {
			continue
		}
		if err := s.resRepo.Save(ctx, res); err != nil {
			return expired, err
		}
		s.audit(ctx, res.OperatorID, res, regulatory.AuditReservationExpired, regulatory.ReservationPending)
		expired++
	}

	return expired, nil
}

func (s *ReservationService) audit(ctx context.Context, actorID uuid.UUID, res *regulatory.Reservation, kind regulatory.EventKind, before any) {
	event := regulatory.NewAuditEvent(actorID, res.BranchID, kind,
		"reservation", res.ID.String(), before, map[string]any{
			"status":         res.Status,
			"reservation_no": res.ReservationNo,
			"report_type":    res.ReportType,
		})
	// The audit write rides along with the transition; a failure here must
	// not undo an already persisted state change.
	_ = s.auditRepo.Append(ctx, event)
}

func (s *ReservationService) generateReservationNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("RSV-%s-%s", s.now().Format("20060102"), suffix)
}

func invalidFieldsError(issues []regulatory.ValidationIssue) error {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.String())
	}
	return shared.NewDomainError("INVALID_CAPTURED_FIELDS", "Captured fields failed validation: "+strings.Join(parts, "; "))
}
