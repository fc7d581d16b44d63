package regulatory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
)

func validReservationInput() NewReservationInput {
	return NewReservationInput{
		ReservationNo: "RSV-20251011-0001",
		BranchID:      uuid.New(),
		CustomerID:    "1234567890123",
		CustomerName:  "Somchai Jaidee",
		ReportType:    ReportAMLO101,
		CurrencyCode:  "USD",
		Direction:     exchange.DirectionBuy,
		PaymentMethod: exchange.PaymentCash,
		LocalAmount:   decimal.RequireFromString("5844600.00"),
		CapturedFields: map[string]any{
			"occupation": "merchant",
		},
		OperatorID: uuid.New(),
	}
}

func TestNewReservation(t *testing.T) {
	t.Run("creates pending reservation with event", func(t *testing.T) {
		res, err := NewReservation(validReservationInput())
		require.NoError(t, err)
		assert.Equal(t, ReservationPending, res.Status)
		assert.True(t, res.IsPending())
		assert.Nil(t, res.ReviewerID)
		assert.Nil(t, res.DecidedAt)
		assert.Len(t, res.GetDomainEvents(), 1)
	})

	t.Run("nil captured fields become an empty map", func(t *testing.T) {
		in := validReservationInput()
		in.CapturedFields = nil
		res, err := NewReservation(in)
		require.NoError(t, err)
		assert.NotNil(t, res.CapturedFields)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]func(*NewReservationInput){
			"empty reservation no":   func(in *NewReservationInput) { in.ReservationNo = "" },
			"nil branch":             func(in *NewReservationInput) { in.BranchID = uuid.Nil },
			"empty customer":         func(in *NewReservationInput) { in.CustomerID = "" },
			"empty customer name":    func(in *NewReservationInput) { in.CustomerName = "" },
			"unknown report type":    func(in *NewReservationInput) { in.ReportType = "AMLO-9" },
			"non customer direction": func(in *NewReservationInput) { in.Direction = exchange.DirectionReversal },
			"unknown payment method": func(in *NewReservationInput) { in.PaymentMethod = "barter" },
			"zero amount":            func(in *NewReservationInput) { in.LocalAmount = decimal.Zero },
			"negative amount":        func(in *NewReservationInput) { in.LocalAmount = decimal.NewFromInt(-1) },
			"nil operator":           func(in *NewReservationInput) { in.OperatorID = uuid.Nil },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				in := validReservationInput()
				mutate(&in)
				_, err := NewReservation(in)
				require.Error(t, err)
			})
		}
	})
}

func TestReservation_Decide(t *testing.T) {
	reviewer := uuid.New()

	t.Run("approve from pending", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Approve(reviewer, "documents verified"))
		assert.Equal(t, ReservationApproved, res.Status)
		assert.True(t, res.IsApproved())
		require.NotNil(t, res.ReviewerID)
		assert.Equal(t, reviewer, *res.ReviewerID)
		assert.NotNil(t, res.DecidedAt)
	})

	t.Run("reject from pending", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Reject(reviewer, "source of funds unclear"))
		assert.Equal(t, ReservationRejected, res.Status)
		assert.True(t, res.Status.IsTerminal())
	})

	t.Run("cannot decide twice", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Approve(reviewer, ""))
		assert.Error(t, res.Approve(reviewer, ""))
		assert.Error(t, res.Reject(reviewer, ""))
	})

	t.Run("reviewer is required", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		assert.Error(t, res.Approve(uuid.Nil, ""))
		assert.Equal(t, ReservationPending, res.Status)
	})
}

func TestReservation_Consume(t *testing.T) {
	t.Run("consume after approval", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Approve(uuid.New(), ""))
		require.NoError(t, res.Consume())
		assert.Equal(t, ReservationConsumed, res.Status)
		assert.NotNil(t, res.ConsumedAt)
		assert.True(t, res.Status.IsTerminal())
	})

	t.Run("cannot consume pending or rejected", func(t *testing.T) {
		pending, _ := NewReservation(validReservationInput())
		assert.Error(t, pending.Consume())

		rejected, _ := NewReservation(validReservationInput())
		require.NoError(t, rejected.Reject(uuid.New(), "no"))
		assert.Error(t, rejected.Consume())
	})

	t.Run("cannot consume twice", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Approve(uuid.New(), ""))
		require.NoError(t, res.Consume())
		assert.Error(t, res.Consume())
	})
}

func TestReservation_Expire(t *testing.T) {
	t.Run("expire from pending", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Expire())
		assert.Equal(t, ReservationExpired, res.Status)
		assert.True(t, res.Status.IsTerminal())
	})

	t.Run("approved reservations never expire", func(t *testing.T) {
		res, _ := NewReservation(validReservationInput())
		require.NoError(t, res.Approve(uuid.New(), ""))
		assert.Error(t, res.Expire())
		assert.Equal(t, ReservationApproved, res.Status)
	})
}

func TestReservationStatus_IsTerminal(t *testing.T) {
	assert.False(t, ReservationPending.IsTerminal())
	assert.False(t, ReservationApproved.IsTerminal())
	assert.True(t, ReservationRejected.IsTerminal())
	assert.True(t, ReservationConsumed.IsTerminal())
	assert.True(t, ReservationExpired.IsTerminal())
}
