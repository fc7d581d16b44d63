package branch

import (
	"strings"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// Currency is an entry in the global currency catalogue. Currencies are not
// partitioned by branch.
type Currency struct {
	shared.BaseEntity
	Code     string `gorm:"type:varchar(3);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null"`
	NameTH   string `gorm:"type:varchar(100)"`
	Decimals int32  `gorm:"not null;default:2"`
	Custom   bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Currency) TableName() string {
	return "currencies"
}

// NewCurrency creates a new catalogue entry
func NewCurrency(code, name string, decimals int32) (*Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY_CODE", "Currency code must be 3 letters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY_NAME", "Currency name cannot be empty")
	}
	if decimals < 0 || decimals > 6 {
		return nil, shared.NewDomainError("INVALID_CURRENCY_DECIMALS", "Currency decimals must be between 0 and 6")
	}
	return &Currency{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Decimals:   decimals,
	}, nil
}
