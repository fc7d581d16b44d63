package persistence

import (
	"context"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"gorm.io/gorm"
)

// GormAuditRepository implements the append-only AuditRepository using GORM.
// Rows are inserted and read, never updated or deleted.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts one audit event
func (r *GormAuditRepository) Append(ctx context.Context, event *regulatory.AuditEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListForEntity returns the trail of one entity in chronological order
func (r *GormAuditRepository) ListForEntity(ctx context.Context, entityKind, entityID string) ([]regulatory.AuditEvent, error) {
	var events []regulatory.AuditEvent
	if err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ?", entityKind, entityID).
		Order("at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Ensure GormAuditRepository implements AuditRepository
var _ regulatory.AuditRepository = (*GormAuditRepository)(nil)
