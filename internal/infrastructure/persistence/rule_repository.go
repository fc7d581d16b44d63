package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRuleRepository implements RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByID finds a trigger rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*regulatory.TriggerRule, error) {
	var rule regulatory.TriggerRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindAll returns every rule, active or not, ordered by rule number
func (r *GormRuleRepository) FindAll(ctx context.Context) ([]regulatory.TriggerRule, error) {
	var rules []regulatory.TriggerRule
	if err := r.db.WithContext(ctx).
		Order("rule_no ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActiveByReportType returns the active rules of a report type ordered by
// rule number, the order the dispatcher evaluates them in
func (r *GormRuleRepository) FindActiveByReportType(ctx context.Context, reportType regulatory.ReportType) ([]regulatory.TriggerRule, error) {
	var rules []regulatory.TriggerRule
	if err := r.db.WithContext(ctx).
		Where("report_type = ? AND active = ?", reportType, true).
		Order("rule_no ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save validates, normalizes and persists a rule. A rule with a malformed
// expression never reaches the table.
func (r *GormRuleRepository) Save(ctx context.Context, rule *regulatory.TriggerRule) error {
	if err := rule.Expression.Validate(); err != nil {
		return err
	}
	rule.Expression.Normalize()
	return r.db.WithContext(ctx).Save(rule).Error
}

// Ensure GormRuleRepository implements RuleRepository
var _ regulatory.RuleRepository = (*GormRuleRepository)(nil)
