package regulatory

import (
	"github.com/google/uuid"
)

// RuleRef identifies a matched rule inside a Decision
type RuleRef struct {
	ID       uuid.UUID `json:"id"`
	RuleNo   int       `json:"rule_no"`
	Name     string    `json:"name"`
	Priority int       `json:"priority"`
}

// Decision is the dispatcher's answer for one report type. A triggered
// decision with AllowContinue=false blocks the transaction until a
// reservation is approved; it is a structured outcome, never an error.
type Decision struct {
	ReportType          ReportType `json:"report_type"`
	Triggered           bool       `json:"triggered"`
	AllowContinue       bool       `json:"allow_continue"`
	HighestPriorityRule *RuleRef   `json:"highest_priority_rule,omitempty"`
	MatchedRules        []RuleRef  `json:"matched_rules,omitempty"`
	MessageZH           string     `json:"message_zh,omitempty"`
	MessageEN           string     `json:"message_en,omitempty"`
	MessageTH           string     `json:"message_th,omitempty"`
}

// Blocks returns true when the transaction must be held for approval
func (d Decision) Blocks() bool {
	return d.Triggered && !d.AllowContinue
}
