package persistence

import (
	"context"
	"errors"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFieldRepository implements FieldRepository using GORM
type GormFieldRepository struct {
	db *gorm.DB
}

// NewGormFieldRepository creates a new GormFieldRepository
func NewGormFieldRepository(db *gorm.DB) *GormFieldRepository {
	return &GormFieldRepository{db: db}
}

// FindAll returns the whole field catalogue in fill order
func (r *GormFieldRepository) FindAll(ctx context.Context) ([]regulatory.FieldSpec, error) {
	var specs []regulatory.FieldSpec
	if err := r.db.WithContext(ctx).
		Order("report_type ASC, fill_order ASC").
		Find(&specs).Error; err != nil {
		return nil, err
	}
	return specs, nil
}

// FindByReportType returns the catalogue of one report type in fill order
func (r *GormFieldRepository) FindByReportType(ctx context.Context, reportType regulatory.ReportType) ([]regulatory.FieldSpec, error) {
	var specs []regulatory.FieldSpec
	if err := r.db.WithContext(ctx).
		Where("report_type = ?", reportType).
		Order("fill_order ASC").
		Find(&specs).Error; err != nil {
		return nil, err
	}
	return specs, nil
}

// Save creates or updates a field spec
func (r *GormFieldRepository) Save(ctx context.Context, spec *regulatory.FieldSpec) error {
	return r.db.WithContext(ctx).Save(spec).Error
}

// FindByName returns one field spec by (report type, field name)
func (r *GormFieldRepository) FindByName(ctx context.Context, reportType regulatory.ReportType, fieldName string) (*regulatory.FieldSpec, error) {
	var spec regulatory.FieldSpec
	if err := r.db.WithContext(ctx).
		Where("report_type = ? AND field_name = ?", reportType, fieldName).
		First(&spec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &spec, nil
}

// Ensure GormFieldRepository implements FieldRepository
var _ regulatory.FieldRepository = (*GormFieldRepository)(nil)
