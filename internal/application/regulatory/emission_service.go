package regulatory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/branch"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory/formmap"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// PDFFiller writes a field map into a report template and persists the
// artifact. Implemented in infrastructure on top of pdfcpu.
type PDFFiller interface {
	Fill(ctx context.Context, reportType regulatory.ReportType, fields formmap.FieldMap, outputPath string) error
}

// EmissionService orchestrates report emission: allocate a number, map the
// fields, fill the PDF, record the report, and consume the reservation.
type EmissionService struct {
	resRepo    regulatory.ReservationRepository
	reportRepo regulatory.ReportRepository
	txRepo     exchange.Repository
	branchRepo branch.Repository
	allocator  regulatory.SequenceAllocator
	registry   *regulatory.Registry
	filler     PDFFiller
	auditRepo  regulatory.AuditRepository
	outputRoot string
	now        func() time.Time
}

// NewEmissionService creates an EmissionService
func NewEmissionService(
	resRepo regulatory.ReservationRepository,
	reportRepo regulatory.ReportRepository,
	txRepo exchange.Repository,
	branchRepo branch.Repository,
	allocator regulatory.SequenceAllocator,
	registry *regulatory.Registry,
	filler PDFFiller,
	auditRepo regulatory.AuditRepository,
	outputRoot string,
) *EmissionService {
	return &EmissionService{
		resRepo:    resRepo,
		reportRepo: reportRepo,
		txRepo:     txRepo,
		branchRepo: branchRepo,
		allocator:  allocator,
		registry:   registry,
		filler:     filler,
		auditRepo:  auditRepo,
		outputRoot: outputRoot,
		now:        time.Now,
	}
}

// EmitReport produces the report PDF for an approved reservation. Emission is
// idempotent on the report number: once a Report row exists for the
// reservation, later calls reuse its number and merely rewrite the PDF bytes.
// A PDF failure after allocation burns the number; the retry path picks the
// allocated number back up through the Report row or re-allocates when the
// failure happened before the row was written.
func (s *EmissionService) EmitReport(ctx context.Context, req EmitReportRequest) (*EmitReportResponse, error) {
	res, err := s.resRepo.FindByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reportRepo.FindByReservation(ctx, res.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	switch {
	case existing != nil:
		// Re-emission; the reservation is normally consumed already
	case res.IsApproved():
	default:
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot emit a report for a %s reservation", res.Status))
	}

	br, err := s.branchRepo.FindByID(ctx, res.BranchID)
	if err != nil {
		return nil, err
	}

	tx, err := s.linkedTransaction(ctx, res)
	if err != nil {
		return nil, err
	}

	emittedAt := s.now()
	var reportNo, outputPath string
	if existing != nil {
		reportNo = existing.ReportNo
		outputPath = existing.PDFPath
		emittedAt = existing.EmittedAt
	} else {
		reportNo, err = s.allocateNumber(ctx, req, res, br, emittedAt)
		if err != nil {
			return nil, err
		}
		outputPath = regulatory.EmissionPath(s.outputRoot, res.ReportType, reportNo, emittedAt)
	}

	fields, err := s.buildFieldMap(res, tx, reportNo, emittedAt)
	if err != nil {
		return nil, err
	}

	if err := s.filler.Fill(ctx, res.ReportType, fields, outputPath); err != nil {
		s.audit(ctx, req.OperatorID, res.BranchID, regulatory.AuditEmissionFailed, "reservation", res.ID.String(), map[string]any{
			"report_no": reportNo,
			"error":     err.Error(),
		})
		return nil, shared.NewDomainError("EMISSION_IO_ERROR",
			fmt.Sprintf("PDF emission failed for %s: %v", reportNo, err))
	}

	if existing == nil {
		var txID *uuid.UUID
		if tx != nil {
			txID = &tx.ID
		}
		report, err := regulatory.NewReport(res.BranchID, reportNo, res.ReportType, res.ID, txID, outputPath, emittedAt, req.OperatorID)
		if err != nil {
			return nil, err
		}
		if err := s.reportRepo.Save(ctx, report); err != nil {
			return nil, err
		}
	}

	// Consume whether or not the Report row pre-existed: a crash between
	// saving the row and consuming leaves the reservation approved, and the
	// next emission must still close it out.
	if res.IsApproved() {
		if err := res.Consume(); err != nil {
			return nil, err
		}
		if err := s.resRepo.Save(ctx, res); err != nil {
			return nil, err
		}
		s.audit(ctx, req.OperatorID, res.BranchID, regulatory.AuditReservationConsumed, "reservation", res.ID.String(), map[string]any{
			"report_no": reportNo,
		})
	}

	s.audit(ctx, req.OperatorID, res.BranchID, regulatory.AuditReportEmitted, "report", reportNo, map[string]any{
		"pdf_path":    outputPath,
		"re_emitted":  existing != nil,
		"report_type": res.ReportType,
	})

	return &EmitReportResponse{
		ReportNo:   reportNo,
		ReportType: res.ReportType,
		PDFPath:    outputPath,
		EmittedAt:  emittedAt,
		ReEmitted:  existing != nil,
	}, nil
}

// ReconcileOrphans scans the emission directory for PDFs that have no Report
// row. Such files appear when the process dies between writing the PDF and
// committing the row; operators resolve them by re-emitting or removing.
func (s *EmissionService) ReconcileOrphans(ctx context.Context) ([]string, error) {
	known, err := s.reportRepo.ListPDFPaths(ctx)
	if err != nil {
		return nil, err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, p := range known {
		knownSet[filepath.Clean(p)] = struct{}{}
	}

	var orphans []string
	err = filepath.WalkDir(s.outputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		if _, ok := knownSet[filepath.Clean(path)]; !ok {
			orphans = append(orphans, path)
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return orphans, nil
}

func (s *EmissionService) allocateNumber(ctx context.Context, req EmitReportRequest, res *regulatory.Reservation, br *branch.Branch, emittedAt time.Time) (string, error) {
	scopeKey := regulatory.ScopeKeyFor(res.ReportType, res.BranchID, res.CurrencyCode, emittedAt)
	seq, err := s.allocator.Allocate(ctx, scopeKey)
	if err != nil {
		return "", err
	}

	reportNo, err := regulatory.FormatReportNumber(res.ReportType, regulatory.RegulatorNumberCodes{
		AMLOInstitutionCode: br.Regulator.AMLOInstitutionCode,
		AMLOBranchCode:      br.Regulator.AMLOBranchCode,
		BOTSenderCode:       br.Regulator.BOTSenderCode,
	}, emittedAt, seq, res.CurrencyCode)
	if err != nil {
		return "", err
	}

	s.audit(ctx, req.OperatorID, res.BranchID, regulatory.AuditNumberAllocated, "report", reportNo, map[string]any{
		"scope_key": scopeKey,
		"sequence":  seq,
	})

	return reportNo, nil
}

// linkedTransaction loads the transaction executed under the reservation, if
// any, and asserts the customer on both rows is the same person.
func (s *EmissionService) linkedTransaction(ctx context.Context, res *regulatory.Reservation) (*exchange.Transaction, error) {
	tx, err := s.txRepo.FindByReservation(ctx, res.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if tx.CustomerID != res.CustomerID {
		return nil, shared.NewDomainError("CUSTOMER_MISMATCH",
			fmt.Sprintf("Transaction %s belongs to customer %s, reservation to %s", tx.TransactionNo, tx.CustomerID, res.CustomerID))
	}
	return tx, nil
}

func (s *EmissionService) buildFieldMap(res *regulatory.Reservation, tx *exchange.Transaction, reportNo string, emittedAt time.Time) (formmap.FieldMap, error) {
	foreign := decimal.Zero
	if tx != nil {
		foreign = tx.ForeignAmount
	} else if raw, ok := res.CapturedFields["foreign_amount"]; ok {
		if d, ok := regulatory.FactDecimal(regulatory.Facts(res.CapturedFields), "foreign_amount"); ok {
			foreign = d
		} else {
			return nil, shared.NewDomainError("INVALID_CAPTURED_FIELDS",
				fmt.Sprintf("Captured foreign_amount %v is not a number", raw))
		}
	}

	in := formmap.Input{
		Registry:      s.registry,
		ReportType:    res.ReportType,
		Direction:     res.Direction,
		PaymentMethod: res.PaymentMethod,
		CurrencyCode:  res.CurrencyCode,
		ForeignAmount: foreign,
		LocalAmount:   res.LocalAmount,
		CustomerID:    res.CustomerID,
		CustomerName:  res.CustomerName,
		ReportNo:      reportNo,
		ReportDate:    emittedAt,
		Captured:      res.CapturedFields,
	}
	if raw, ok := res.CapturedFields["account_no"]; ok {
		in.AccountNo = fmt.Sprintf("%v", raw)
	}
	if raw, ok := res.CapturedFields["counterparty_account"]; ok {
		in.CounterpartyAccount = fmt.Sprintf("%v", raw)
	}

	return formmap.Build(in)
}

func (s *EmissionService) audit(ctx context.Context, actorID, branchID uuid.UUID, kind regulatory.EventKind, entityKind, entityID string, after map[string]any) {
	_ = s.auditRepo.Append(ctx, regulatory.NewAuditEvent(actorID, branchID, kind, entityKind, entityID, nil, after))
}
