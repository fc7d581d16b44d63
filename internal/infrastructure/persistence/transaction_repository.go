package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// customerFacingDirections are the directions that count toward a customer's
// rolling aggregates. Balance adjustments and reversals do not.
var customerFacingDirections = []exchange.Direction{
	exchange.DirectionBuy,
	exchange.DirectionSell,
}

// GormTransactionRepository implements exchange.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*exchange.Transaction, error) {
	var tx exchange.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByTransactionNo finds a transaction by its number
func (r *GormTransactionRepository) FindByTransactionNo(ctx context.Context, transactionNo string) (*exchange.Transaction, error) {
	var tx exchange.Transaction
	if err := r.db.WithContext(ctx).
		Where("transaction_no = ?", transactionNo).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindAllForBranch returns the transactions of a branch matching the filter
func (r *GormTransactionRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter exchange.Filter) ([]exchange.Transaction, error) {
	var transactions []exchange.Transaction
	query := r.db.WithContext(ctx).
		Model(&exchange.Transaction{}).
		Where("branch_id = ?", branchID)

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CurrencyCode != nil {
		query = query.Where("currency_code = ?", *filter.CurrencyCode)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.FromDate != nil {
		query = query.Where("business_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("business_date <= ?", *filter.ToDate)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("business_time DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByReservation returns the transaction executed under a reservation
func (r *GormTransactionRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) (*exchange.Transaction, error) {
	var tx exchange.Transaction
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *exchange.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// SumLocalAmountSince returns the summed THB amount of customer-facing
// transactions for the customer since the given instant
func (r *GormTransactionRepository) SumLocalAmountSince(ctx context.Context, customerID string, since time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&exchange.Transaction{}).
		Select("COALESCE(SUM(local_amount), 0)").
		Where("customer_id = ? AND direction IN ? AND business_time >= ?",
			customerID, customerFacingDirections, since).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CountSince returns the number of customer-facing transactions for the
// customer since the given instant
func (r *GormTransactionRepository) CountSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&exchange.Transaction{}).
		Where("customer_id = ? AND direction IN ? AND business_time >= ?",
			customerID, customerFacingDirections, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTransactionRepository implements exchange.Repository
var _ exchange.Repository = (*GormTransactionRepository)(nil)
