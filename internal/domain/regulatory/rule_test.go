package regulatory

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thresholdExpr(t *testing.T) Expression {
	t.Helper()
	var expr Expression
	err := json.Unmarshal([]byte(`{
		"logic": "AND",
		"conditions": [
			{"field": "total_amount", "operator": ">=", "value": 5000000}
		]
	}`), &expr)
	require.NoError(t, err)
	return expr
}

func TestExpression_Evaluate(t *testing.T) {
	expr := thresholdExpr(t)

	t.Run("below threshold does not match", func(t *testing.T) {
		facts := Facts{"customer_id": "1234567890123", "total_amount": 3243753, "payment_method": "cash"}
		assert.False(t, expr.Evaluate(facts, EvalOptions{}))
	})

	t.Run("above threshold matches", func(t *testing.T) {
		facts := Facts{"customer_id": "1234567890123", "total_amount": 5844600, "payment_method": "cash"}
		assert.True(t, expr.Evaluate(facts, EvalOptions{}))
	})

	t.Run("exact threshold matches on gte", func(t *testing.T) {
		assert.True(t, expr.Evaluate(Facts{"total_amount": 5000000}, EvalOptions{}))
	})

	t.Run("missing field is false, never an error", func(t *testing.T) {
		assert.False(t, expr.Evaluate(Facts{}, EvalOptions{}))
		assert.False(t, expr.Evaluate(nil, EvalOptions{}))
	})

	t.Run("nil fact value is false", func(t *testing.T) {
		assert.False(t, expr.Evaluate(Facts{"total_amount": nil}, EvalOptions{}))
	})

	t.Run("decimal and string facts coerce numerically", func(t *testing.T) {
		assert.True(t, expr.Evaluate(Facts{"total_amount": decimal.NewFromInt(6000000)}, EvalOptions{}))
		assert.True(t, expr.Evaluate(Facts{"total_amount": "6000000"}, EvalOptions{}))
		assert.False(t, expr.Evaluate(Facts{"total_amount": "not-a-number"}, EvalOptions{}))
	})
}

func TestExpression_NestedLogic(t *testing.T) {
	var expr Expression
	err := json.Unmarshal([]byte(`{
		"logic": "OR",
		"conditions": [
			{"field": "transaction_count_30d", "operator": ">", "value": 10},
			{
				"logic": "AND",
				"conditions": [
					{"field": "payment_method", "operator": "=", "value": "cash"},
					{"field": "cumulative_amount_30d", "operator": ">=", "value": 8000000}
				]
			}
		]
	}`), &expr)
	require.NoError(t, err)

	t.Run("inner AND branch matches", func(t *testing.T) {
		facts := Facts{
			"transaction_count_30d": 3,
			"payment_method":        "cash",
			"cumulative_amount_30d": 9000000,
		}
		assert.True(t, expr.Evaluate(facts, EvalOptions{}))
	})

	t.Run("outer OR short-circuits on first condition", func(t *testing.T) {
		assert.True(t, expr.Evaluate(Facts{"transaction_count_30d": 11}, EvalOptions{}))
	})

	t.Run("nothing matches", func(t *testing.T) {
		facts := Facts{
			"transaction_count_30d": 1,
			"payment_method":        "transfer",
			"cumulative_amount_30d": 9000000,
		}
		assert.False(t, expr.Evaluate(facts, EvalOptions{}))
	})

	t.Run("legacy = operator is accepted", func(t *testing.T) {
		facts := Facts{"payment_method": "cash", "cumulative_amount_30d": 8000000, "transaction_count_30d": 0}
		assert.True(t, expr.Evaluate(facts, EvalOptions{}))
	})
}

func TestExpression_CodeFieldComparison(t *testing.T) {
	var expr Expression
	require.NoError(t, json.Unmarshal([]byte(`{
		"logic": "AND",
		"conditions": [{"field": "issuing_country", "operator": "==", "value": "MM"}]
	}`), &expr))

	codes := map[string]struct{}{"issuing_country": {}}

	t.Run("country codes compare case-insensitively", func(t *testing.T) {
		assert.True(t, expr.Evaluate(Facts{"issuing_country": "mm"}, EvalOptions{CodeFields: codes}))
	})

	t.Run("non-code fields compare exactly", func(t *testing.T) {
		assert.False(t, expr.Evaluate(Facts{"issuing_country": "mm"}, EvalOptions{}))
		assert.True(t, expr.Evaluate(Facts{"issuing_country": "MM"}, EvalOptions{}))
	})
}

func TestExpression_UnknownOperator(t *testing.T) {
	expr := Expression{
		Logic: LogicAnd,
		Conditions: []Expression{
			{Field: "total_amount", Operator: Operator("~"), Value: 1},
		},
	}
	// An unknown operator evaluates the leaf to false; it never raises.
	assert.False(t, expr.Evaluate(Facts{"total_amount": 1}, EvalOptions{}))
}

func TestExpression_EvaluateWithTrace(t *testing.T) {
	var expr Expression
	require.NoError(t, json.Unmarshal([]byte(`{
		"logic": "AND",
		"conditions": [
			{"field": "total_amount", "operator": ">=", "value": 5000000},
			{"field": "payment_method", "operator": "==", "value": "cash"}
		]
	}`), &expr))

	t.Run("trace partitions leaves and agrees with Evaluate", func(t *testing.T) {
		facts := Facts{"total_amount": 5844600, "payment_method": "transfer"}
		plain := expr.Evaluate(facts, EvalOptions{})
		traced, trace := expr.EvaluateWithTrace(facts, EvalOptions{})
		assert.Equal(t, plain, traced)
		assert.False(t, traced)
		assert.Len(t, trace.Matched, 1)
		assert.Len(t, trace.Unmatched, 1)
		assert.Equal(t, "payment_method", trace.Unmatched[0].Field)
		assert.Equal(t, "transfer", trace.Unmatched[0].Actual)
	})

	t.Run("boolean agreement over a grid of fact dicts", func(t *testing.T) {
		grid := []Facts{
			nil,
			{},
			{"total_amount": 1},
			{"total_amount": 5844600},
			{"total_amount": 5844600, "payment_method": "cash"},
			{"payment_method": "cash"},
			{"total_amount": "garbage", "payment_method": "CASH"},
		}
		for _, facts := range grid {
			plain := expr.Evaluate(facts, EvalOptions{})
			traced, _ := expr.EvaluateWithTrace(facts, EvalOptions{})
			assert.Equal(t, plain, traced)
		}
	})
}

func TestExpression_Normalize(t *testing.T) {
	expr := Expression{
		Logic: LogicOp("and"),
		Conditions: []Expression{
			{Field: "total_amount", Operator: "=", Value: 5},
		},
	}
	expr.Normalize()
	assert.Equal(t, LogicAnd, expr.Logic)
	assert.Equal(t, OpEq, expr.Conditions[0].Operator)
}

func TestExpression_Validate(t *testing.T) {
	t.Run("accepts well-formed tree", func(t *testing.T) {
		expr := thresholdExpr(t)
		assert.NoError(t, expr.Validate())
	})

	t.Run("rejects empty logic node", func(t *testing.T) {
		expr := Expression{Logic: LogicAnd}
		assert.Error(t, expr.Validate())
	})

	t.Run("rejects leaf without field", func(t *testing.T) {
		expr := Expression{Operator: OpEq, Value: 1}
		assert.Error(t, expr.Validate())
	})

	t.Run("rejects unknown operator at ingest", func(t *testing.T) {
		expr := Expression{Field: "total_amount", Operator: "~", Value: 1}
		assert.Error(t, expr.Validate())
	})
}

func TestExpression_Fields(t *testing.T) {
	var expr Expression
	require.NoError(t, json.Unmarshal([]byte(`{
		"logic": "OR",
		"conditions": [
			{"field": "total_amount", "operator": ">=", "value": 1},
			{"logic": "AND", "conditions": [
				{"field": "issuing_country", "operator": "==", "value": "MM"},
				{"field": "total_amount", "operator": "<", "value": 2}
			]}
		]
	}`), &expr))
	fields := expr.Fields()
	assert.ElementsMatch(t, []string{"total_amount", "issuing_country"}, fields)
}

func TestNewTriggerRule(t *testing.T) {
	t.Run("normalizes expression on ingest", func(t *testing.T) {
		rule, err := NewTriggerRule(ReportAMLO101, 1, "Cash over 5M THB", 100, false, Expression{
			Logic: "and",
			Conditions: []Expression{
				{Field: "total_amount", Operator: "=", Value: 5000000},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, LogicAnd, rule.Expression.Logic)
		assert.Equal(t, OpEq, rule.Expression.Conditions[0].Operator)
		assert.True(t, rule.Active)
	})

	t.Run("rejects invalid expression", func(t *testing.T) {
		_, err := NewTriggerRule(ReportAMLO101, 1, "Broken", 0, false, Expression{Logic: "XOR", Conditions: []Expression{{Field: "x", Operator: OpEq}}})
		require.Error(t, err)
	})

	t.Run("rejects unknown report type", func(t *testing.T) {
		_, err := NewTriggerRule(ReportType("AMLO-9"), 1, "Nope", 0, false, thresholdExpr(t))
		require.Error(t, err)
	})
}
