package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations
const pgUniqueViolation = "23505"

// isUniqueViolation detects a unique-constraint violation from whichever
// driver surfaced it: pgconn for the pgx-based gorm postgres driver, pq for
// plain database/sql connections, and gorm's translated sentinel for drivers
// opened with TranslateError.
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormReservationRepository implements ReservationRepository using GORM.
// The single-pending invariant is enforced by a partial unique index on
// (customer_id, report_type) WHERE status = 'pending'; Create translates the
// violation into ErrDuplicatePending so racing tellers get a clean refusal.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*regulatory.Reservation, error) {
	var res regulatory.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindByReservationNo finds a reservation by its human-facing number
func (r *GormReservationRepository) FindByReservationNo(ctx context.Context, reservationNo string) (*regulatory.Reservation, error) {
	var res regulatory.Reservation
	if err := r.db.WithContext(ctx).
		Where("reservation_no = ?", reservationNo).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindPending returns the pending reservation of a customer for a report type
func (r *GormReservationRepository) FindPending(ctx context.Context, customerID string, reportType regulatory.ReportType) (*regulatory.Reservation, error) {
	var res regulatory.Reservation
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND report_type = ? AND status = ?",
			customerID, reportType, regulatory.ReservationPending).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindByCustomer returns all reservations of a customer, newest first
func (r *GormReservationRepository) FindByCustomer(ctx context.Context, customerID string) ([]regulatory.Reservation, error) {
	var reservations []regulatory.Reservation
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindPendingOlderThan returns pending reservations created before the cutoff
func (r *GormReservationRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]regulatory.Reservation, error) {
	var reservations []regulatory.Reservation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", regulatory.ReservationPending, cutoff).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Create inserts a new reservation. A unique violation on the partial pending
// index maps to ErrDuplicatePending.
func (r *GormReservationRepository) Create(ctx context.Context, res *regulatory.Reservation) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicatePending
		}
		return err
	}
	return nil
}

// Save updates an existing reservation
func (r *GormReservationRepository) Save(ctx context.Context, res *regulatory.Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// Ensure GormReservationRepository implements ReservationRepository
var _ regulatory.ReservationRepository = (*GormReservationRepository)(nil)
