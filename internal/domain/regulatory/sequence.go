package regulatory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// ReportSequence is a partitioned counter row. Sequences within a scope key
// are strictly increasing and gap-free; the row is advanced only under a row
// lock inside a committed transaction.
type ReportSequence struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	ScopeKey        string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	CurrentSequence int64     `gorm:"not null;default:0"`
	LastUsedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReportSequence) TableName() string {
	return "report_sequences"
}

// SequenceAllocator hands out the next sequence under a scope key, atomically
type SequenceAllocator interface {
	Allocate(ctx context.Context, scopeKey string) (int64, error)
}

// AMLOScopeKey partitions AMLO sequences by (branch, currency, year-month)
func AMLOScopeKey(branchID uuid.UUID, currencyCode string, period time.Time) string {
	return fmt.Sprintf("amlo:%s:%s:%s", branchID, currencyCode, period.Format("2006-01"))
}

// BOTScopeKey partitions BOT sequences by (branch, report type, year-month)
func BOTScopeKey(branchID uuid.UUID, reportType ReportType, period time.Time) string {
	return fmt.Sprintf("bot:%s:%s:%s", branchID, reportType, period.Format("2006-01"))
}

// ScopeKeyFor builds the scope key for a report type
func ScopeKeyFor(reportType ReportType, branchID uuid.UUID, currencyCode string, period time.Time) string {
	if reportType.Authority() == AuthorityAMLO {
		return AMLOScopeKey(branchID, currencyCode, period)
	}
	return BOTScopeKey(branchID, reportType, period)
}

// buddhistYY is the two-digit Buddhist-era year (2025 → 68)
func buddhistYY(t time.Time) string {
	return fmt.Sprintf("%02d", (t.Year()+543)%100)
}

// FormatAMLONumber renders the regulator-prescribed AMLO report number:
// {institution}-{branch}-{yy}-{6-digit-sequence}{currency}
func FormatAMLONumber(institutionCode, branchCode string, period time.Time, sequence int64, currencyCode string) string {
	return fmt.Sprintf("%s-%s-%s-%06d%s", institutionCode, branchCode, buddhistYY(period), sequence, currencyCode)
}

// FormatBOTNumber renders the BOT report number:
// {sender}-{yy}{mm}-{6-digit-sequence}-{report_type}
func FormatBOTNumber(senderCode string, period time.Time, sequence int64, reportType ReportType) string {
	return fmt.Sprintf("%s-%s%02d-%06d-%s", senderCode, buddhistYY(period), int(period.Month()), sequence, reportType)
}

// RegulatorNumberCodes are the branch identifiers needed to format a number
type RegulatorNumberCodes struct {
	AMLOInstitutionCode string
	AMLOBranchCode      string
	BOTSenderCode       string
}

// FormatReportNumber renders the full report number for a report type
func FormatReportNumber(reportType ReportType, codes RegulatorNumberCodes, period time.Time, sequence int64, currencyCode string) (string, error) {
	switch reportType.Authority() {
	case AuthorityAMLO:
		if codes.AMLOInstitutionCode == "" || codes.AMLOBranchCode == "" {
			return "", shared.NewDomainError("MISSING_REGULATOR_CODES", "Branch is missing AMLO institution or branch code")
		}
		return FormatAMLONumber(codes.AMLOInstitutionCode, codes.AMLOBranchCode, period, sequence, currencyCode), nil
	default:
		if codes.BOTSenderCode == "" {
			return "", shared.NewDomainError("MISSING_REGULATOR_CODES", "Branch is missing BOT sender code")
		}
		return FormatBOTNumber(codes.BOTSenderCode, period, sequence, reportType), nil
	}
}
