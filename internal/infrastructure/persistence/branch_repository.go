package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/branch"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBranchRepository implements branch.Repository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	var b branch.Branch
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByCode finds a branch by its code
func (r *GormBranchRepository) FindByCode(ctx context.Context, code string) (*branch.Branch, error) {
	var b branch.Branch
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindActive returns all active branches
func (r *GormBranchRepository) FindActive(ctx context.Context) ([]branch.Branch, error) {
	var branches []branch.Branch
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("code ASC").
		Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// GormCurrencyRepository implements branch.CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByCode finds a currency by its ISO code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*branch.Currency, error) {
	var c branch.Currency
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns the whole currency catalogue
func (r *GormCurrencyRepository) FindAll(ctx context.Context) ([]branch.Currency, error) {
	var currencies []branch.Currency
	if err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&currencies).Error; err != nil {
		return nil, err
	}
	return currencies, nil
}

// Save creates or updates a currency
func (r *GormCurrencyRepository) Save(ctx context.Context, c *branch.Currency) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Ensure the repositories implement their interfaces
var (
	_ branch.Repository         = (*GormBranchRepository)(nil)
	_ branch.CurrencyRepository = (*GormCurrencyRepository)(nil)
)
