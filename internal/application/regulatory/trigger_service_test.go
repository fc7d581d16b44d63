package regulatory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

func emptyRegistry(t *testing.T) *regulatory.Registry {
	t.Helper()
	reg, err := regulatory.NewRegistry(nil)
	require.NoError(t, err)
	return reg
}

func thresholdRule(t *testing.T, ruleNo, priority int, allowContinue bool, field string, value any) regulatory.TriggerRule {
	t.Helper()
	rule, err := regulatory.NewTriggerRule(regulatory.ReportAMLO101, ruleNo, "threshold", priority, allowContinue, regulatory.Expression{
		Logic: regulatory.LogicAnd,
		Conditions: []regulatory.Expression{
			{Field: field, Operator: regulatory.OpGte, Value: value},
		},
	})
	require.NoError(t, err)
	rule.WarningEN = "Report required"
	rule.WarningTH = "ต้องรายงานธุรกรรม"
	return *rule
}

type triggerFixture struct {
	ruleRepo  *MockRuleRepository
	txRepo    *MockTransactionRepository
	auditRepo *MockAuditRepository
	service   *TriggerService
}

func newTriggerFixture(t *testing.T, rules []regulatory.TriggerRule) *triggerFixture {
	f := &triggerFixture{
		ruleRepo:  new(MockRuleRepository),
		txRepo:    new(MockTransactionRepository),
		auditRepo: new(MockAuditRepository),
	}
	f.ruleRepo.On("FindActiveByReportType", mock.Anything, regulatory.ReportAMLO101).Return(rules, nil)
	f.ruleRepo.On("FindActiveByReportType", mock.Anything, mock.Anything).Return([]regulatory.TriggerRule{}, nil)
	f.txRepo.On("SumLocalAmountSince", mock.Anything, mock.Anything, mock.Anything).Return(decimal.Zero, nil).Maybe()
	f.txRepo.On("CountSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	f.service = NewTriggerService(f.ruleRepo, f.txRepo, f.auditRepo, emptyRegistry(t), nil)
	return f
}

func cashFacts(amount int64) regulatory.Facts {
	return regulatory.Facts{
		"customer_id":    "1234567890123",
		"total_amount":   amount,
		"payment_method": "cash",
		"currency_code":  "USD",
		"exchange_type":  "buy",
	}
}

func amloDecision(t *testing.T, decisions []regulatory.Decision) regulatory.Decision {
	t.Helper()
	for _, d := range decisions {
		if d.ReportType == regulatory.ReportAMLO101 {
			return d
		}
	}
	t.Fatal("no AMLO-1-01 decision returned")
	return regulatory.Decision{}
}

func TestTriggerService_CheckTransaction(t *testing.T) {
	fiveMillion := thresholdRule(t, 1, 100, false, "total_amount", 5000000)

	t.Run("below threshold does not trigger", func(t *testing.T) {
		f := newTriggerFixture(t, []regulatory.TriggerRule{fiveMillion})
		decisions, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(3243753),
		})
		require.NoError(t, err)

		d := amloDecision(t, decisions)
		assert.False(t, d.Triggered)
		assert.True(t, d.AllowContinue)
		assert.False(t, d.Blocks())
		assert.Nil(t, d.HighestPriorityRule)
	})

	t.Run("above threshold blocks with warning triple", func(t *testing.T) {
		f := newTriggerFixture(t, []regulatory.TriggerRule{fiveMillion})
		decisions, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(5844600),
		})
		require.NoError(t, err)

		d := amloDecision(t, decisions)
		assert.True(t, d.Triggered)
		assert.False(t, d.AllowContinue)
		assert.True(t, d.Blocks())
		require.NotNil(t, d.HighestPriorityRule)
		assert.Equal(t, 1, d.HighestPriorityRule.RuleNo)
		assert.Equal(t, "ต้องรายงานธุรกรรม", d.MessageTH)
	})

	t.Run("highest priority wins, ties broken by smallest rule number", func(t *testing.T) {
		rules := []regulatory.TriggerRule{
			thresholdRule(t, 7, 50, true, "total_amount", 1),
			thresholdRule(t, 3, 90, true, "total_amount", 1),
			thresholdRule(t, 9, 90, true, "total_amount", 1),
		}
		f := newTriggerFixture(t, rules)
		decisions, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(100),
		})
		require.NoError(t, err)

		d := amloDecision(t, decisions)
		require.NotNil(t, d.HighestPriorityRule)
		assert.Equal(t, 90, d.HighestPriorityRule.Priority)
		assert.Equal(t, 3, d.HighestPriorityRule.RuleNo)
		assert.Len(t, d.MatchedRules, 3)
	})

	t.Run("allow-continue only when every matched rule allows it", func(t *testing.T) {
		allAllow := []regulatory.TriggerRule{
			thresholdRule(t, 1, 10, true, "total_amount", 1),
			thresholdRule(t, 2, 20, true, "total_amount", 1),
		}
		f := newTriggerFixture(t, allAllow)
		decisions, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(100),
		})
		require.NoError(t, err)
		d := amloDecision(t, decisions)
		assert.True(t, d.Triggered)
		assert.True(t, d.AllowContinue)

		oneBlocks := append(allAllow, thresholdRule(t, 3, 5, false, "total_amount", 1))
		f = newTriggerFixture(t, oneBlocks)
		decisions, err = f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(100),
		})
		require.NoError(t, err)
		assert.False(t, amloDecision(t, decisions).AllowContinue)
	})

	t.Run("persisted transaction is audited", func(t *testing.T) {
		f := newTriggerFixture(t, []regulatory.TriggerRule{fiveMillion})
		txID := uuid.New()
		f.auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *regulatory.AuditEvent) bool {
			return e.EventKind == regulatory.AuditTriggerDecided && e.EntityID == txID.String()
		})).Return(nil)

		_, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), TransactionID: &txID, Facts: cashFacts(5844600),
		})
		require.NoError(t, err)
		f.auditRepo.AssertExpectations(t)
	})
}

func TestTriggerService_Enrichment(t *testing.T) {
	cumulativeRule := thresholdRule(t, 1, 100, false, "cumulative_amount_30d", 5000000)

	t.Run("rolling window includes the candidate transaction", func(t *testing.T) {
		f := &triggerFixture{
			ruleRepo:  new(MockRuleRepository),
			txRepo:    new(MockTransactionRepository),
			auditRepo: new(MockAuditRepository),
		}
		f.ruleRepo.On("FindActiveByReportType", mock.Anything, regulatory.ReportAMLO101).Return([]regulatory.TriggerRule{cumulativeRule}, nil)
		f.ruleRepo.On("FindActiveByReportType", mock.Anything, mock.Anything).Return([]regulatory.TriggerRule{}, nil)
		f.txRepo.On("SumLocalAmountSince", mock.Anything, "1234567890123", mock.Anything).Return(decimal.NewFromInt(4000000), nil)
		f.txRepo.On("CountSince", mock.Anything, "1234567890123", mock.Anything).Return(int64(4), nil)
		f.service = NewTriggerService(f.ruleRepo, f.txRepo, f.auditRepo, emptyRegistry(t), nil)

		decisions, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(2000000),
		})
		require.NoError(t, err)
		assert.True(t, amloDecision(t, decisions).Triggered)
	})

	t.Run("no customer id skips enrichment", func(t *testing.T) {
		f := newTriggerFixture(t, []regulatory.TriggerRule{cumulativeRule})
		facts := cashFacts(2000000)
		delete(facts, "customer_id")

		decisions, err := f.service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: facts,
		})
		require.NoError(t, err)
		assert.False(t, amloDecision(t, decisions).Triggered)
		f.txRepo.AssertNotCalled(t, "SumLocalAmountSince", mock.Anything, mock.Anything, mock.Anything)
	})
}

// fakeRuleCache is an in-memory RuleCache for cache-path tests
type fakeRuleCache struct {
	rules map[regulatory.ReportType][]regulatory.TriggerRule
	sets  int
}

func (c *fakeRuleCache) GetActiveRules(_ context.Context, rt regulatory.ReportType) ([]regulatory.TriggerRule, bool) {
	rules, ok := c.rules[rt]
	return rules, ok
}

func (c *fakeRuleCache) SetActiveRules(_ context.Context, rt regulatory.ReportType, rules []regulatory.TriggerRule) {
	c.rules[rt] = rules
	c.sets++
}

func (c *fakeRuleCache) Invalidate(_ context.Context, rt regulatory.ReportType) {
	delete(c.rules, rt)
}

func TestTriggerService_RuleCache(t *testing.T) {
	rule := thresholdRule(t, 1, 100, false, "total_amount", 5000000)
	cache := &fakeRuleCache{rules: make(map[regulatory.ReportType][]regulatory.TriggerRule)}

	ruleRepo := new(MockRuleRepository)
	ruleRepo.On("FindActiveByReportType", mock.Anything, regulatory.ReportAMLO101).Return([]regulatory.TriggerRule{rule}, nil).Once()
	ruleRepo.On("FindActiveByReportType", mock.Anything, mock.Anything).Return([]regulatory.TriggerRule{}, nil)

	txRepo := new(MockTransactionRepository)
	txRepo.On("SumLocalAmountSince", mock.Anything, mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	txRepo.On("CountSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	service := NewTriggerService(ruleRepo, txRepo, new(MockAuditRepository), emptyRegistry(t), cache)

	// First check misses the cache and populates it; the second is served
	// from the cache (the Once expectation would fail otherwise).
	for i := 0; i < 2; i++ {
		decisions, err := service.CheckTransaction(context.Background(), CheckTransactionRequest{
			BranchID: uuid.New(), ActorID: uuid.New(), Facts: cashFacts(5844600),
		})
		require.NoError(t, err)
		assert.True(t, amloDecision(t, decisions).Triggered)
	}
	ruleRepo.AssertExpectations(t)
	assert.Positive(t, cache.sets)
}
