package regulatory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Facts is the fact dictionary a rule expression is evaluated against
type Facts map[string]any

// LogicOp joins the conditions of a branch node
type LogicOp string

const (
	LogicAnd LogicOp = "AND"
	LogicOr  LogicOp = "OR"
)

// Operator compares a fact against a literal in a leaf condition
type Operator string

const (
	OpEq  Operator = "=="
	OpGte Operator = ">="
	OpGt  Operator = ">"
	OpLte Operator = "<="
	OpLt  Operator = "<"
	OpNeq Operator = "!="
)

// Expression is one node of a rule expression tree. A node is either a branch
// (Logic + Conditions) or a leaf (Field + Operator + Value); never both.
type Expression struct {
	Logic      LogicOp      `json:"logic,omitempty"`
	Conditions []Expression `json:"conditions,omitempty"`

	Field    string   `json:"field,omitempty"`
	Operator Operator `json:"operator,omitempty"`
	Value    any      `json:"value,omitempty"`
}

// IsBranch returns true for logic nodes
func (e *Expression) IsBranch() bool {
	return e.Logic != ""
}

// Normalize canonicalizes the expression in place: logic operators are
// upper-cased and the legacy "=" spelling becomes "==". Applied on ingest so
// stored rules are uniform.
func (e *Expression) Normalize() {
	e.Logic = LogicOp(strings.ToUpper(string(e.Logic)))
	if e.Operator == "=" {
		e.Operator = OpEq
	}
	for i := range e.Conditions {
		e.Conditions[i].Normalize()
	}
}

// Validate checks the grammar: every branch carries AND/OR and at least one
// condition, every leaf names a field and a known operator.
func (e *Expression) Validate() error {
	if e.IsBranch() {
		if e.Logic != LogicAnd && e.Logic != LogicOr {
			return shared.NewDomainError("INVALID_RULE_LOGIC", fmt.Sprintf("Unknown logic operator %q", e.Logic))
		}
		if len(e.Conditions) == 0 {
			return shared.NewDomainError("INVALID_RULE_EXPRESSION", "Logic node has no conditions")
		}
		if e.Field != "" || e.Operator != "" {
			return shared.NewDomainError("INVALID_RULE_EXPRESSION", "Node mixes logic and leaf fields")
		}
		for i := range e.Conditions {
			if err := e.Conditions[i].Validate(); err != nil {
				return err
			}
		}
		return nil
	}
	if e.Field == "" {
		return shared.NewDomainError("INVALID_RULE_EXPRESSION", "Leaf condition has no field")
	}
	switch e.Operator {
	case OpEq, OpGte, OpGt, OpLte, OpLt, OpNeq, "=":
		return nil
	default:
		return shared.NewDomainError("INVALID_RULE_OPERATOR", fmt.Sprintf("Unknown operator %q", e.Operator))
	}
}

// Fields collects every fact name referenced by the expression
func (e *Expression) Fields() []string {
	seen := make(map[string]struct{})
	var walk func(n *Expression)
	walk = func(n *Expression) {
		if n.IsBranch() {
			for i := range n.Conditions {
				walk(&n.Conditions[i])
			}
			return
		}
		if n.Field != "" {
			seen[n.Field] = struct{}{}
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	return out
}

// EvalOptions tunes leaf comparison semantics
type EvalOptions struct {
	// CodeFields compare string equality case-insensitively
	CodeFields map[string]struct{}
}

// Evaluate evaluates the expression against the facts. Total: a missing or
// null field, or an unknown operator, evaluates the leaf to false; Evaluate
// never fails.
func (e *Expression) Evaluate(facts Facts, opts EvalOptions) bool {
	if e.IsBranch() {
		// Short-circuit left to right
		for i := range e.Conditions {
			got := e.Conditions[i].Evaluate(facts, opts)
			if e.Logic == LogicOr && got {
				return true
			}
			if e.Logic != LogicOr && !got {
				return false
			}
		}
		return e.Logic != LogicOr
	}
	return e.evaluateLeaf(facts, opts)
}

// ConditionTrace records the outcome of a single leaf condition
type ConditionTrace struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Expected any      `json:"expected"`
	Actual   any      `json:"actual"`
	Result   bool     `json:"result"`
}

// Trace partitions the leaves of an evaluation by outcome
type Trace struct {
	Matched   []ConditionTrace `json:"matched"`
	Unmatched []ConditionTrace `json:"unmatched"`
}

// EvaluateWithTrace evaluates like Evaluate but visits every leaf and
// records each comparison. The boolean result is identical to Evaluate.
func (e *Expression) EvaluateWithTrace(facts Facts, opts EvalOptions) (bool, Trace) {
	trace := Trace{}
	result := e.evaluateTraced(facts, opts, &trace)
	return result, trace
}

func (e *Expression) evaluateTraced(facts Facts, opts EvalOptions, trace *Trace) bool {
	if e.IsBranch() {
		// No short-circuit here: the trace names every leaf.
		result := e.Logic != LogicOr
		for i := range e.Conditions {
			got := e.Conditions[i].evaluateTraced(facts, opts, trace)
			if e.Logic == LogicOr {
				result = result || got
			} else {
				result = result && got
			}
		}
		return result
	}

	got := e.evaluateLeaf(facts, opts)
	entry := ConditionTrace{
		Field:    e.Field,
		Operator: e.Operator,
		Expected: e.Value,
		Actual:   facts[e.Field],
		Result:   got,
	}
	if got {
		trace.Matched = append(trace.Matched, entry)
	} else {
		trace.Unmatched = append(trace.Unmatched, entry)
	}
	return got
}

func (e *Expression) evaluateLeaf(facts Facts, opts EvalOptions) bool {
	actual, present := facts[e.Field]
	if !present || actual == nil {
		return false
	}

	op := e.Operator
	if op == "=" {
		op = OpEq
	}

	// Numeric comparison when both sides coerce to decimal
	if a, aok := toDecimal(actual); aok {
		if b, bok := toDecimal(e.Value); bok {
			cmp := a.Cmp(b)
			switch op {
			case OpEq:
				return cmp == 0
			case OpNeq:
				return cmp != 0
			case OpGte:
				return cmp >= 0
			case OpGt:
				return cmp > 0
			case OpLte:
				return cmp <= 0
			case OpLt:
				return cmp < 0
			default:
				return false
			}
		}
	}

	// String comparison; equality is case-insensitive for code fields
	as := fmt.Sprintf("%v", actual)
	bs := fmt.Sprintf("%v", e.Value)
	caseless := false
	if opts.CodeFields != nil {
		_, caseless = opts.CodeFields[e.Field]
	}
	equal := as == bs
	if caseless {
		equal = strings.EqualFold(as, bs)
	}

	switch op {
	case OpEq:
		return equal
	case OpNeq:
		return !equal
	case OpGte:
		return as >= bs
	case OpGt:
		return as > bs
	case OpLte:
		return as <= bs
	case OpLt:
		return as < bs
	default:
		return false
	}
}

// toDecimal coerces rule literals and facts into decimal for numeric
// comparison. JSON numbers arrive as float64 or json.Number depending on the
// decoder; database values may already be decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromInt(int64(n)), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// FactDecimal coerces a named fact to decimal with the same rules leaf
// comparison uses
func FactDecimal(facts Facts, name string) (decimal.Decimal, bool) {
	v, ok := facts[name]
	if !ok || v == nil {
		return decimal.Decimal{}, false
	}
	return toDecimal(v)
}

// TriggerRule is one active rule of a report type. The teller-facing decision
// of whether a transaction needs a regulator report comes from evaluating all
// active rules of each type.
type TriggerRule struct {
	shared.BaseAggregateRoot
	ReportType ReportType `gorm:"type:varchar(20);not null;index:idx_rule_report_type"`
	// RuleNo orders rules for the deterministic tie-break when priorities are
	// equal: the smallest rule number wins.
	RuleNo        int        `gorm:"not null;uniqueIndex:idx_rule_no"`
	NameZH        string     `gorm:"type:varchar(200)"`
	NameEN        string     `gorm:"type:varchar(200);not null"`
	NameTH        string     `gorm:"type:varchar(200)"`
	Priority      int        `gorm:"not null;default:0"`
	AllowContinue bool       `gorm:"not null;default:false"`
	WarningZH     string     `gorm:"type:varchar(500)"`
	WarningEN     string     `gorm:"type:varchar(500)"`
	WarningTH     string     `gorm:"type:varchar(500)"`
	Expression    Expression `gorm:"type:jsonb;serializer:json;column:rule_expression"`
	Active        bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (TriggerRule) TableName() string {
	return "trigger_rules"
}

// NewTriggerRule creates a rule, validating and normalizing its expression
func NewTriggerRule(reportType ReportType, ruleNo int, nameEN string, priority int, allowContinue bool, expr Expression) (*TriggerRule, error) {
	if !reportType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", fmt.Sprintf("Unknown report type %q", reportType))
	}
	if ruleNo <= 0 {
		return nil, shared.NewDomainError("INVALID_RULE_NO", "Rule number must be positive")
	}
	if nameEN == "" {
		return nil, shared.NewDomainError("INVALID_RULE_NAME", "Rule name cannot be empty")
	}
	if err := expr.Validate(); err != nil {
		return nil, err
	}
	expr.Normalize()

	return &TriggerRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReportType:        reportType,
		RuleNo:            ruleNo,
		NameEN:            nameEN,
		Priority:          priority,
		AllowContinue:     allowContinue,
		Expression:        expr,
		Active:            true,
	}, nil
}

// Matches evaluates the rule against the facts
func (r *TriggerRule) Matches(facts Facts, opts EvalOptions) bool {
	return r.Expression.Evaluate(facts, opts)
}
