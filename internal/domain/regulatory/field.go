package regulatory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FieldType is the data type of a catalogue field
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldDecimal  FieldType = "decimal"
	FieldInteger  FieldType = "integer"
	FieldDate     FieldType = "date"
	FieldCheckbox FieldType = "checkbox"
)

// FieldSpec is one row of the report-field catalogue: how a supplementary
// field is captured, validated, and placed into the regulator's PDF template.
type FieldSpec struct {
	shared.BaseEntity
	ReportType ReportType `gorm:"type:varchar(20);not null;uniqueIndex:idx_report_field,priority:1"`
	FieldName  string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_report_field,priority:2"`
	DataType   FieldType  `gorm:"type:varchar(20);not null"`
	MaxLength  int        `gorm:"not null;default:0"`
	Required   bool       `gorm:"not null;default:false"`
	FieldGroup string     `gorm:"type:varchar(50)"`
	FillOrder  int        `gorm:"not null"`
	LabelZH    string     `gorm:"type:varchar(200)"`
	LabelEN    string     `gorm:"type:varchar(200)"`
	LabelTH    string     `gorm:"type:varchar(200)"`
	// FillPos is the interactive-field identifier inside the regulator's PDF
	// template. Nil when the field has no PDF target.
	FillPos *string `gorm:"type:varchar(100)"`
	// EmptyEncoding is written to the PDF target when the field sits in the
	// inactive column of a mirrored form ("" or "0.00", per template).
	EmptyEncoding string `gorm:"type:varchar(10);not null;default:''"`
	// IsCode marks fields whose string equality is compared case-insensitively
	// by the rule engine (country codes and the like).
	IsCode bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (FieldSpec) TableName() string {
	return "report_fields"
}

// ValidationIssue describes one rejected value from ValidateValues
type ValidationIssue struct {
	FieldName string `json:"field_name"`
	Reason    string `json:"reason"`
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.FieldName, v.Reason)
}

// EnrichmentFields are fact names derived by the dispatcher rather than
// declared in the catalogue. Rules may reference them freely.
var EnrichmentFields = map[string]struct{}{
	"cumulative_amount_30d": {},
	"transaction_count_30d": {},
	"customer_age":          {},
	"payment_method":        {},
	"total_amount":          {},
	"exchange_type":         {},
	"customer_id":           {},
	"currency_code":         {},
	"issuing_country":       {},
}

// Registry is the in-memory view of the field catalogue, built once at
// startup and then read-only.
type Registry struct {
	fields map[ReportType][]FieldSpec
	byName map[ReportType]map[string]*FieldSpec
}

// NewRegistry builds a Registry from catalogue rows. Duplicate fill positions
// within a report type are a catalogue error.
func NewRegistry(specs []FieldSpec) (*Registry, error) {
	r := &Registry{
		fields: make(map[ReportType][]FieldSpec),
		byName: make(map[ReportType]map[string]*FieldSpec),
	}

	for _, spec := range specs {
		if !spec.ReportType.IsValid() {
			return nil, shared.NewDomainError("INVALID_REPORT_TYPE", fmt.Sprintf("Unknown report type %q in field catalogue", spec.ReportType))
		}
		r.fields[spec.ReportType] = append(r.fields[spec.ReportType], spec)
	}

	for rt, list := range r.fields {
		sort.SliceStable(list, func(i, j int) bool { return list[i].FillOrder < list[j].FillOrder })
		r.fields[rt] = list

		names := make(map[string]*FieldSpec, len(list))
		fillpos := make(map[string]string, len(list))
		for i := range list {
			spec := &list[i]
			if _, dup := names[spec.FieldName]; dup {
				return nil, shared.NewDomainError("DUPLICATE_FIELD", fmt.Sprintf("Field %s declared twice for %s", spec.FieldName, rt))
			}
			names[spec.FieldName] = spec
			if spec.FillPos != nil && *spec.FillPos != "" {
				if prev, dup := fillpos[*spec.FillPos]; dup {
					return nil, shared.NewDomainError("DUPLICATE_FILLPOS", fmt.Sprintf("Fill position %s claimed by both %s and %s for %s", *spec.FillPos, prev, spec.FieldName, rt))
				}
				fillpos[*spec.FillPos] = spec.FieldName
			}
		}
		r.byName[rt] = names
	}

	return r, nil
}

// ListFields returns the fields of a report type ordered by fill order
func (r *Registry) ListFields(rt ReportType) []FieldSpec {
	return r.fields[rt]
}

// Lookup returns the spec of a single field, or nil
func (r *Registry) Lookup(rt ReportType, fieldName string) *FieldSpec {
	return r.byName[rt][fieldName]
}

// FillPositions returns every non-empty fill position of a report type
func (r *Registry) FillPositions(rt ReportType) []string {
	var out []string
	for _, spec := range r.fields[rt] {
		if spec.FillPos != nil && *spec.FillPos != "" {
			out = append(out, *spec.FillPos)
		}
	}
	return out
}

// CodeFields returns the names of code-tagged fields of a report type,
// including the enrichment-derived code facts.
func (r *Registry) CodeFields(rt ReportType) map[string]struct{} {
	out := map[string]struct{}{
		"issuing_country": {},
		"currency_code":   {},
		"exchange_type":   {},
	}
	for _, spec := range r.fields[rt] {
		if spec.IsCode {
			out[spec.FieldName] = struct{}{}
		}
	}
	return out
}

// ValidateValues applies per-field coercion, required checks, and length
// ceilings to captured supplementary values. Unknown field names are errors.
func (r *Registry) ValidateValues(rt ReportType, values map[string]any) (bool, []ValidationIssue) {
	var issues []ValidationIssue

	specs, ok := r.byName[rt]
	if !ok {
		return false, []ValidationIssue{{FieldName: string(rt), Reason: "no fields catalogued for report type"}}
	}

	for name := range values {
		if _, known := specs[name]; !known {
			issues = append(issues, ValidationIssue{FieldName: name, Reason: "unknown field"})
		}
	}

	for _, spec := range r.fields[rt] {
		raw, present := values[spec.FieldName]
		if !present || raw == nil || raw == "" {
			if spec.Required {
				issues = append(issues, ValidationIssue{FieldName: spec.FieldName, Reason: "required field missing"})
			}
			continue
		}
		if issue := spec.checkValue(raw); issue != nil {
			issues = append(issues, *issue)
		}
	}

	return len(issues) == 0, issues
}

func (s *FieldSpec) checkValue(raw any) *ValidationIssue {
	str := fmt.Sprintf("%v", raw)

	if s.MaxLength > 0 && len([]rune(str)) > s.MaxLength {
		return &ValidationIssue{FieldName: s.FieldName, Reason: fmt.Sprintf("exceeds maximum length %d", s.MaxLength)}
	}

	switch s.DataType {
	case FieldDecimal:
		if _, err := decimal.NewFromString(strings.ReplaceAll(str, ",", "")); err != nil {
			return &ValidationIssue{FieldName: s.FieldName, Reason: "not a decimal"}
		}
	case FieldInteger:
		if _, err := strconv.ParseInt(str, 10, 64); err != nil {
			return &ValidationIssue{FieldName: s.FieldName, Reason: "not an integer"}
		}
	case FieldDate:
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return &ValidationIssue{FieldName: s.FieldName, Reason: "not a date (want YYYY-MM-DD)"}
		}
	case FieldCheckbox:
		if !isTruthyToken(str) && !isFalsyToken(str) {
			return &ValidationIssue{FieldName: s.FieldName, Reason: "not a checkbox value"}
		}
	}
	return nil
}

func isTruthyToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		return true
	}
	return false
}

func isFalsyToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0", "no", "n", "off", "":
		return true
	}
	return false
}

// CheckboxTruthy coerces a captured checkbox value to bool
func CheckboxTruthy(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return isTruthyToken(fmt.Sprintf("%v", v))
	}
}

// CheckRuleFields verifies that every field referenced by the given rules is
// either catalogued for the rule's report type or enrichment-derived.
// Violations are catalogue errors surfaced at startup.
func (r *Registry) CheckRuleFields(rules []TriggerRule) error {
	for i := range rules {
		rule := &rules[i]
		for _, name := range rule.Expression.Fields() {
			if _, ok := EnrichmentFields[name]; ok {
				continue
			}
			if r.Lookup(rule.ReportType, name) == nil {
				return shared.NewDomainError("UNDECLARED_RULE_FIELD",
					fmt.Sprintf("Rule %d (%s) references undeclared field %q", rule.RuleNo, rule.ReportType, name))
			}
		}
	}
	return nil
}
