package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a report by its ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*regulatory.Report, error) {
	var report regulatory.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindByReportNo finds a report by its regulator-facing number
func (r *GormReportRepository) FindByReportNo(ctx context.Context, reportNo string) (*regulatory.Report, error) {
	var report regulatory.Report
	if err := r.db.WithContext(ctx).
		Where("report_no = ?", reportNo).
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindByReservation finds the report emitted for a reservation, if any
func (r *GormReportRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) (*regulatory.Report, error) {
	var report regulatory.Report
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListPDFPaths returns the artifact path of every emitted report. The orphan
// reconciler diffs this against the output directory.
func (r *GormReportRepository) ListPDFPaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := r.db.WithContext(ctx).
		Model(&regulatory.Report{}).
		Pluck("pdf_path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// Save creates or updates a report
func (r *GormReportRepository) Save(ctx context.Context, report *regulatory.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// Ensure GormReportRepository implements ReportRepository
var _ regulatory.ReportRepository = (*GormReportRepository)(nil)
