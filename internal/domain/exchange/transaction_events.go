package exchange

import (
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// Event types for exchange transactions
const (
	EventTransactionRecorded = "exchange.transaction.recorded"
	EventTransactionReversed = "exchange.transaction.reversed"
)

// TransactionRecordedEvent is raised when a teller records a transaction
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionNo string    `json:"transaction_no"`
	CurrencyCode  string    `json:"currency_code"`
	Direction     Direction `json:"direction"`
	LocalAmount   string    `json:"local_amount"`
	CustomerID    string    `json:"customer_id"`
}

// NewTransactionRecordedEvent creates a TransactionRecordedEvent
func NewTransactionRecordedEvent(t *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionRecorded, "Transaction", t.ID, t.BranchID),
		TransactionNo:   t.TransactionNo,
		CurrencyCode:    t.CurrencyCode,
		Direction:       t.Direction,
		LocalAmount:     t.LocalAmount.String(),
		CustomerID:      t.CustomerID,
	}
}

// TransactionReversedEvent is raised when a compensating row is created
type TransactionReversedEvent struct {
	shared.BaseDomainEvent
	TransactionNo string `json:"transaction_no"`
	OriginalNo    string `json:"original_no"`
	Reason        string `json:"reason"`
}

// NewTransactionReversedEvent creates a TransactionReversedEvent
func NewTransactionReversedEvent(rev, original *Transaction) *TransactionReversedEvent {
	return &TransactionReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTransactionReversed, "Transaction", rev.ID, rev.BranchID),
		TransactionNo:   rev.TransactionNo,
		OriginalNo:      original.TransactionNo,
		Reason:          rev.ReversalReason,
	}
}
