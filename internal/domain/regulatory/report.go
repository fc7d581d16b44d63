package regulatory

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// Report records an emitted regulator report. Rows are immutable; re-emitting
// a reservation rewrites the PDF bytes but never the report number.
type Report struct {
	shared.BranchAggregateRoot
	ReportNo      string     `gorm:"type:varchar(60);not null;uniqueIndex"`
	ReportType    ReportType `gorm:"type:varchar(20);not null;index"`
	ReservationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	TransactionID *uuid.UUID `gorm:"type:uuid;index"`
	PDFPath       string     `gorm:"type:varchar(300);not null"`
	EmittedAt     time.Time  `gorm:"not null"`
	EmittedBy     uuid.UUID  `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Report) TableName() string {
	return "reports"
}

// NewReport creates a report record for a freshly emitted PDF
func NewReport(branchID uuid.UUID, reportNo string, reportType ReportType, reservationID uuid.UUID, transactionID *uuid.UUID, pdfPath string, emittedAt time.Time, emittedBy uuid.UUID) (*Report, error) {
	if reportNo == "" {
		return nil, shared.NewDomainError("INVALID_REPORT_NO", "Report number cannot be empty")
	}
	if !reportType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", fmt.Sprintf("Unknown report type %q", reportType))
	}
	if reservationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESERVATION", "Reservation ID is required")
	}
	if pdfPath == "" {
		return nil, shared.NewDomainError("INVALID_PDF_PATH", "PDF path cannot be empty")
	}

	return &Report{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, emittedBy),
		ReportNo:            reportNo,
		ReportType:          reportType,
		ReservationID:       reservationID,
		TransactionID:       transactionID,
		PDFPath:             pdfPath,
		EmittedAt:           emittedAt,
		EmittedBy:           emittedBy,
	}, nil
}

// EmissionPath builds the deterministic artifact path:
// {root}/{year}/{month}/{report_type}_{report_no}.pdf
func EmissionPath(root string, reportType ReportType, reportNo string, emittedAt time.Time) string {
	return filepath.Join(root,
		fmt.Sprintf("%04d", emittedAt.Year()),
		fmt.Sprintf("%02d", int(emittedAt.Month())),
		fmt.Sprintf("%s_%s.pdf", reportType, reportNo),
	)
}
