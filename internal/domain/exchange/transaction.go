package exchange

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Direction classifies an exchange transaction
type Direction string

const (
	DirectionBuy      Direction = "buy"      // branch buys foreign from the customer
	DirectionSell     Direction = "sell"     // branch sells foreign to the customer
	DirectionCashIn   Direction = "cash_in"  // cash balance adjustment in
	DirectionCashOut  Direction = "cash_out" // cash balance adjustment out
	DirectionReversal Direction = "reversal" // compensating row for a prior transaction
	DirectionInitial  Direction = "initial"  // opening balance row
)

// IsValid returns true for a known direction
func (d Direction) IsValid() bool {
	switch d {
	case DirectionBuy, DirectionSell, DirectionCashIn, DirectionCashOut, DirectionReversal, DirectionInitial:
		return true
	}
	return false
}

// IsCustomerFacing returns true for directions initiated by a customer at the counter
func (d Direction) IsCustomerFacing() bool {
	return d == DirectionBuy || d == DirectionSell
}

// PaymentMethod is how the customer settles
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// IsValid returns true for a known payment method
func (p PaymentMethod) IsValid() bool {
	return p == PaymentCash || p == PaymentTransfer
}

// Transaction is a single exchange recorded at a teller workstation.
// Rows are immutable once created; mistakes are corrected by a compensating
// reversal row, never by mutation.
type Transaction struct {
	shared.BranchAggregateRoot
	TransactionNo  string          `gorm:"type:varchar(40);not null;uniqueIndex"`
	CurrencyCode   string          `gorm:"type:varchar(3);not null;index"`
	Direction      Direction       `gorm:"type:varchar(10);not null;index"`
	ForeignAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate           decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	LocalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CustomerName   string          `gorm:"type:varchar(200)"`
	CustomerID     string          `gorm:"type:varchar(40);index"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(10);not null"`
	IssuingCountry string          `gorm:"type:varchar(2)"`
	ReceiptLang    string          `gorm:"type:varchar(5);not null;default:'th'"`
	OperatorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BusinessDate   time.Time       `gorm:"type:date;not null;index"`
	BusinessTime   time.Time       `gorm:"not null"`
	BalanceBefore  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	// Reversal rows carry a dedicated reason and a link back to the original
	// row; customer fields are copied from the original, never overloaded.
	ReversalReason        string     `gorm:"type:varchar(500)"`
	ReversedTransactionID *uuid.UUID `gorm:"type:uuid;index"`

	// Set when the transaction executed under an approved reservation
	ReservationID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "exchange_transactions"
}

// NewTransactionInput carries the teller-entered values for a new transaction
type NewTransactionInput struct {
	TransactionNo  string
	BranchID       uuid.UUID
	CurrencyCode   string
	Direction      Direction
	ForeignAmount  decimal.Decimal
	Rate           decimal.Decimal
	BaseDecimals   int32
	CustomerName   string
	CustomerID     string
	PaymentMethod  PaymentMethod
	IssuingCountry string
	ReceiptLang    string
	OperatorID     uuid.UUID
	BusinessDate   time.Time
	BusinessTime   time.Time
	BalanceBefore  decimal.Decimal
	ReservationID  *uuid.UUID
}

// NewTransaction creates a teller transaction. The local amount is derived,
// never entered: round(foreign × rate, base decimals).
func NewTransaction(in NewTransactionInput) (*Transaction, error) {
	if in.TransactionNo == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NO", "Transaction number cannot be empty")
	}
	if in.BranchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if len(in.CurrencyCode) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	if !in.Direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Unknown direction %q", in.Direction))
	}
	if in.Direction == DirectionReversal {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Reversal rows are created via Reverse, not directly")
	}
	if !in.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", in.PaymentMethod))
	}
	if in.Direction.IsCustomerFacing() && in.ForeignAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Foreign amount must be positive")
	}
	if in.Direction.IsCustomerFacing() && in.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate must be positive")
	}
	if in.OperatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID is required")
	}
	if in.BusinessDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_BUSINESS_DATE", "Business date is required")
	}

	local := in.ForeignAmount.Mul(in.Rate).Round(in.BaseDecimals)

	delta := in.ForeignAmount
	if in.Direction == DirectionSell || in.Direction == DirectionCashOut {
		delta = delta.Neg()
	}

	lang := in.ReceiptLang
	if lang == "" {
		lang = "th"
	}

	tx := &Transaction{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(in.BranchID, in.OperatorID),
		TransactionNo:       in.TransactionNo,
		CurrencyCode:        in.CurrencyCode,
		Direction:           in.Direction,
		ForeignAmount:       in.ForeignAmount,
		Rate:                in.Rate,
		LocalAmount:         local,
		CustomerName:        in.CustomerName,
		CustomerID:          in.CustomerID,
		PaymentMethod:       in.PaymentMethod,
		IssuingCountry:      in.IssuingCountry,
		ReceiptLang:         lang,
		OperatorID:          in.OperatorID,
		BusinessDate:        in.BusinessDate,
		BusinessTime:        in.BusinessTime,
		BalanceBefore:       in.BalanceBefore,
		BalanceAfter:        in.BalanceBefore.Add(delta),
		ReservationID:       in.ReservationID,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// Reverse produces the compensating row for this transaction. Amounts are the
// arithmetic negation of the original; customer identity is copied across.
func (t *Transaction) Reverse(transactionNo, reason string, operatorID uuid.UUID, businessDate, businessTime time.Time, balanceBefore decimal.Decimal) (*Transaction, error) {
	if t.Direction == DirectionReversal {
		return nil, shared.NewDomainError("ALREADY_REVERSAL", "A reversal row cannot be reversed")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Reversal reason is required")
	}
	if transactionNo == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_NO", "Transaction number cannot be empty")
	}
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID is required")
	}

	origID := t.ID
	rev := &Transaction{
		BranchAggregateRoot:   shared.NewBranchAggregateRootWithCreator(t.BranchID, operatorID),
		TransactionNo:         transactionNo,
		CurrencyCode:          t.CurrencyCode,
		Direction:             DirectionReversal,
		ForeignAmount:         t.ForeignAmount.Neg(),
		Rate:                  t.Rate,
		LocalAmount:           t.LocalAmount.Neg(),
		CustomerName:          t.CustomerName,
		CustomerID:            t.CustomerID,
		PaymentMethod:         t.PaymentMethod,
		IssuingCountry:        t.IssuingCountry,
		ReceiptLang:           t.ReceiptLang,
		OperatorID:            operatorID,
		BusinessDate:          businessDate,
		BusinessTime:          businessTime,
		BalanceBefore:         balanceBefore,
		BalanceAfter:          balanceBefore.Sub(t.deltaForeign()),
		ReversalReason:        reason,
		ReversedTransactionID: &origID,
	}

	rev.AddDomainEvent(NewTransactionReversedEvent(rev, t))

	return rev, nil
}

// deltaForeign is the signed foreign-balance movement of the original row
func (t *Transaction) deltaForeign() decimal.Decimal {
	if t.Direction == DirectionSell || t.Direction == DirectionCashOut {
		return t.ForeignAmount.Neg()
	}
	return t.ForeignAmount
}

// IsReversal returns true for compensating rows
func (t *Transaction) IsReversal() bool {
	return t.Direction == DirectionReversal
}
