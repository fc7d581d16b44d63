package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows transaction listings
type Filter struct {
	CustomerID   *string
	CurrencyCode *string
	Direction    *Direction
	FromDate     *time.Time
	ToDate       *time.Time
	Page         int
	PageSize     int
}

// Repository provides access to exchange transactions.
// The Sum/Count aggregates feed rule-engine enrichment: the dispatcher asks
// for a customer's rolling cumulative THB volume and transaction count.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByTransactionNo(ctx context.Context, transactionNo string) (*Transaction, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter Filter) ([]Transaction, error)
	// FindByReservation returns the transaction executed under a reservation
	FindByReservation(ctx context.Context, reservationID uuid.UUID) (*Transaction, error)
	Save(ctx context.Context, t *Transaction) error

	// SumLocalAmountSince returns the summed local (THB) amount of
	// customer-facing transactions for the customer since the given instant.
	SumLocalAmountSince(ctx context.Context, customerID string, since time.Time) (decimal.Decimal, error)
	// CountSince returns the number of customer-facing transactions for the
	// customer since the given instant.
	CountSince(ctx context.Context, customerID string, since time.Time) (int64, error)
}
