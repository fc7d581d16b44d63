package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	THB Currency = "THB" // Thai Baht (base currency of every branch today)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	JPY Currency = "JPY" // Japanese Yen
	CNY Currency = "CNY" // Chinese Yuan
	SGD Currency = "SGD" // Singapore Dollar
	MYR Currency = "MYR" // Malaysian Ringgit
)

// DefaultCurrency is the default base currency for the system
const DefaultCurrency = THB

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyTHB creates Money in THB (Thai Baht)
func NewMoneyTHB(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: THB}
}

// NewMoneyTHBFromFloat creates Money in THB from float64
func NewMoneyTHBFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: THB}
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroTHB returns a zero-value Money in THB
func ZeroTHB() Money {
	return Zero(THB)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns a new Money with the difference of both amounts
// Returns error if currencies don't match
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Neg returns a new Money with the negated amount
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// MulRate multiplies the amount by an exchange rate and converts into the
// target currency, rounding to the target currency's decimal places
func (m Money) MulRate(rate decimal.Decimal, target Currency, targetDecimals int32) Money {
	return Money{
		amount:   m.amount.Mul(rate).Round(targetDecimals),
		currency: target,
	}
}

// RoundTo returns a new Money rounded to the given number of decimal places
func (m Money) RoundTo(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// Equal returns true if both amount and currency are equal
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Cmp compares two Money values of the same currency.
// Returns error if currencies don't match
func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return m.amount.Cmp(other.amount), nil
}

// FormatFixed2 serializes the amount with exactly two decimal digits and no
// thousands separator. This is the wire format for monetary fields in
// regulator PDF forms; the viewer applies its own display formatting.
func (m Money) FormatFixed2() string {
	return m.amount.StringFixed(2)
}

// String returns a human-readable representation
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.String())
}
