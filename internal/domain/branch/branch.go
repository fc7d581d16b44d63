package branch

import (
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// RegulatorCodes holds the identifiers a branch files reports under.
// AMLO codes key the CTR/ATR/STR report numbers; BOT codes key the
// BuyFX/SellFX/FCD submissions.
type RegulatorCodes struct {
	AMLOInstitutionCode string `gorm:"type:varchar(10)"`
	AMLOBranchCode      string `gorm:"type:varchar(10)"`
	BOTSenderCode       string `gorm:"type:varchar(10)"`
	BOTAreaCode         string `gorm:"type:varchar(10)"`
	BOTLicenseNo        string `gorm:"type:varchar(30)"`
}

// Branch represents a physical exchange branch
type Branch struct {
	shared.BaseAggregateRoot
	Code             string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name             string `gorm:"type:varchar(200);not null"`
	BaseCurrencyCode string `gorm:"type:varchar(3);not null"`
	Regulator        RegulatorCodes `gorm:"embedded;embeddedPrefix:regulator_"`
	Timezone         string `gorm:"type:varchar(50);not null;default:'Asia/Bangkok'"`
	Active           bool   `gorm:"not null;default:true"`
	// HasTransactions latches once the first exchange is recorded; the base
	// currency is immutable from that point on.
	HasTransactions bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(code, name, baseCurrencyCode string, regulator RegulatorCodes) (*Branch, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_BRANCH_CODE", "Branch code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BRANCH_NAME", "Branch name cannot be empty")
	}
	if len(baseCurrencyCode) != 3 {
		return nil, shared.NewDomainError("INVALID_BASE_CURRENCY", "Base currency must be a 3-letter code")
	}

	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		BaseCurrencyCode:  baseCurrencyCode,
		Regulator:         regulator,
		Timezone:          "Asia/Bangkok",
		Active:            true,
	}, nil
}

// ChangeBaseCurrency changes the base currency. Refused once the branch has
// recorded its first transaction.
func (b *Branch) ChangeBaseCurrency(code string) error {
	if b.HasTransactions {
		return shared.NewDomainError("BASE_CURRENCY_LOCKED", "Base currency cannot change after the first transaction")
	}
	if len(code) != 3 {
		return shared.NewDomainError("INVALID_BASE_CURRENCY", "Base currency must be a 3-letter code")
	}
	b.BaseCurrencyCode = code
	b.IncrementVersion()
	return nil
}

// MarkFirstTransaction latches the base-currency lock
func (b *Branch) MarkFirstTransaction() {
	if !b.HasTransactions {
		b.HasTransactions = true
		b.IncrementVersion()
	}
}
