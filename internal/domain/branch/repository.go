package branch

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to branches
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindByCode(ctx context.Context, code string) (*Branch, error)
	FindActive(ctx context.Context) ([]Branch, error)
	Save(ctx context.Context, b *Branch) error
}

// CurrencyRepository provides access to the global currency catalogue
type CurrencyRepository interface {
	FindByCode(ctx context.Context, code string) (*Currency, error)
	FindAll(ctx context.Context) ([]Currency, error)
	Save(ctx context.Context, c *Currency) error
}
