package persistence

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceAllocator hands out gap-free report sequences. Each scope key
// owns one counter row; Allocate locks it with SELECT ... FOR UPDATE, bumps
// it and commits. Two concurrent allocations against the same scope serialize
// on the row lock, so no sequence is handed out twice and none is skipped.
//
// A first allocation under a scope key races on row creation: both inserts
// hit the unique index and the loser retries, finding the winner's row.
type GormSequenceAllocator struct {
	db         *gorm.DB
	maxRetries int
}

// NewGormSequenceAllocator creates an allocator with a bounded retry budget
func NewGormSequenceAllocator(db *gorm.DB, maxRetries int) *GormSequenceAllocator {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &GormSequenceAllocator{db: db, maxRetries: maxRetries}
}

// allocRetryBase is the backoff unit between allocation attempts
const allocRetryBase = 20 * time.Millisecond

// retryableAllocError reports whether a failed attempt is worth repeating:
// the insert race on the counter row (unique violation), a serialization
// failure, a deadlock, or an unavailable row lock. Anything else, such as a
// refused connection, fails the allocation immediately.
func retryableAllocError(err error) bool {
	var code string
	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		code = pgxErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return true
	default:
		return false
	}
	switch code {
	case "23505", // unique_violation, lost the counter-row insert race
		"40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03": // lock_not_available
		return true
	}
	return false
}

// allocBackoff sleeps before the next attempt, growing with the attempt
// number and jittered so two racing allocators do not retry in lockstep.
func allocBackoff(ctx context.Context, attempt int) error {
	delay := allocRetryBase << attempt
	delay += time.Duration(rand.Int63n(int64(allocRetryBase)))
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Allocate returns the next sequence for the scope key, atomically
func (a *GormSequenceAllocator) Allocate(ctx context.Context, scopeKey string) (int64, error) {
	var allocated int64

	for attempt := 0; attempt < a.maxRetries; attempt++ {
		err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var seq regulatory.ReportSequence
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("scope_key = ?", scopeKey).
				First(&seq).Error

			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				seq = regulatory.ReportSequence{
					ID:              uuid.New(),
					ScopeKey:        scopeKey,
					CurrentSequence: 0,
					LastUsedAt:      time.Now(),
				}
				if err := tx.Create(&seq).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			}

			seq.CurrentSequence++
			seq.LastUsedAt = time.Now()
			if err := tx.Save(&seq).Error; err != nil {
				return err
			}
			allocated = seq.CurrentSequence
			return nil
		})
		if err == nil {
			return allocated, nil
		}
		if !retryableAllocError(err) {
			return 0, err
		}
		if attempt < a.maxRetries-1 {
			if err := allocBackoff(ctx, attempt); err != nil {
				return 0, err
			}
		}
	}

	return 0, shared.ErrSequenceExhausted
}

// Ensure GormSequenceAllocator implements SequenceAllocator
var _ regulatory.SequenceAllocator = (*GormSequenceAllocator)(nil)
