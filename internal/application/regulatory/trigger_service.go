package regulatory

import (
	"context"
	"sort"
	"time"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// RuleCache is a read-through cache over the active rule set. The redis
// implementation lives in infrastructure; a nil cache degrades to database
// reads on every check.
type RuleCache interface {
	GetActiveRules(ctx context.Context, reportType regulatory.ReportType) ([]regulatory.TriggerRule, bool)
	SetActiveRules(ctx context.Context, reportType regulatory.ReportType, rules []regulatory.TriggerRule)
	Invalidate(ctx context.Context, reportType regulatory.ReportType)
}

// enrichmentWindow is the rolling window for cumulative aggregates
const enrichmentWindow = 30 * 24 * time.Hour

// TriggerService is the trigger dispatcher: it evaluates every active rule of
// every report type against a candidate transaction's facts and answers which
// reports are required and whether the transaction may proceed.
type TriggerService struct {
	ruleRepo  regulatory.RuleRepository
	txRepo    exchange.Repository
	auditRepo regulatory.AuditRepository
	registry  *regulatory.Registry
	cache     RuleCache
	now       func() time.Time
}

// NewTriggerService creates a TriggerService. cache may be nil.
func NewTriggerService(
	ruleRepo regulatory.RuleRepository,
	txRepo exchange.Repository,
	auditRepo regulatory.AuditRepository,
	registry *regulatory.Registry,
	cache RuleCache,
) *TriggerService {
	return &TriggerService{
		ruleRepo:  ruleRepo,
		txRepo:    txRepo,
		auditRepo: auditRepo,
		registry:  registry,
		cache:     cache,
		now:       time.Now,
	}
}

// CheckTransaction evaluates all active rules against the facts and returns
// one decision per report type that has active rules. Facts are enriched with
// the customer's 30-day aggregates before evaluation. When the request names
// a persisted transaction, the decisions are recorded to the audit trail.
func (s *TriggerService) CheckTransaction(ctx context.Context, req CheckTransactionRequest) ([]regulatory.Decision, error) {
	facts, err := s.enrichFacts(ctx, req.Facts)
	if err != nil {
		return nil, err
	}

	var decisions []regulatory.Decision
	for _, rt := range regulatory.AllReportTypes() {
		rules, err := s.activeRules(ctx, rt)
		if err != nil {
			return nil, err
		}
		if len(rules) == 0 {
			continue
		}
		decisions = append(decisions, s.decide(rt, rules, facts))
	}

	if req.TransactionID != nil {
		event := regulatory.NewAuditEvent(req.ActorID, req.BranchID,
			regulatory.AuditTriggerDecided, "transaction", req.TransactionID.String(),
			nil, decisions)
		if err := s.auditRepo.Append(ctx, event); err != nil {
			return nil, err
		}
	}

	return decisions, nil
}

// decide evaluates one report type's rules. The highest priority matched rule
// wins; equal priorities fall back to the smallest rule number. The
// transaction may continue only when every matched rule allows it.
func (s *TriggerService) decide(rt regulatory.ReportType, rules []regulatory.TriggerRule, facts regulatory.Facts) regulatory.Decision {
	opts := regulatory.EvalOptions{CodeFields: s.registry.CodeFields(rt)}

	var matched []*regulatory.TriggerRule
	for i := range rules {
		if rules[i].Matches(facts, opts) {
			matched = append(matched, &rules[i])
		}
	}

	decision := regulatory.Decision{ReportType: rt, AllowContinue: true}
	if len(matched) == 0 {
		return decision
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].RuleNo < matched[j].RuleNo
	})

	top := matched[0]
	decision.Triggered = true
	decision.HighestPriorityRule = &regulatory.RuleRef{
		ID: top.ID, RuleNo: top.RuleNo, Name: top.NameEN, Priority: top.Priority,
	}
	decision.MessageZH = top.WarningZH
	decision.MessageEN = top.WarningEN
	decision.MessageTH = top.WarningTH

	for _, m := range matched {
		decision.MatchedRules = append(decision.MatchedRules, regulatory.RuleRef{
			ID: m.ID, RuleNo: m.RuleNo, Name: m.NameEN, Priority: m.Priority,
		})
		if !m.AllowContinue {
			decision.AllowContinue = false
		}
	}

	return decision
}

// enrichFacts derives the cross-transaction aggregates rules may reference.
// The candidate transaction itself counts toward the rolling window.
func (s *TriggerService) enrichFacts(ctx context.Context, facts regulatory.Facts) (regulatory.Facts, error) {
	enriched := make(regulatory.Facts, len(facts)+2)
	for k, v := range facts {
		enriched[k] = v
	}

	customerID, _ := enriched["customer_id"].(string)
	if customerID == "" {
		return enriched, nil
	}

	since := s.now().Add(-enrichmentWindow)
	sum, err := s.txRepo.SumLocalAmountSince(ctx, customerID, since)
	if err != nil {
		return nil, err
	}
	count, err := s.txRepo.CountSince(ctx, customerID, since)
	if err != nil {
		return nil, err
	}

	if amount, ok := regulatory.FactDecimal(enriched, "total_amount"); ok {
		sum = sum.Add(amount)
		count++
	}

	enriched["cumulative_amount_30d"] = sum
	enriched["transaction_count_30d"] = count

	return enriched, nil
}

// activeRules reads the rule set through the cache
func (s *TriggerService) activeRules(ctx context.Context, rt regulatory.ReportType) ([]regulatory.TriggerRule, error) {
	if s.cache != nil {
		if rules, ok := s.cache.GetActiveRules(ctx, rt); ok {
			return rules, nil
		}
	}
	rules, err := s.ruleRepo.FindActiveByReportType(ctx, rt)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetActiveRules(ctx, rt, rules)
	}
	return rules, nil
}
