package regulatory

import (
	"context"
	"fmt"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// FieldService exposes the report-field catalogue to data-entry clients
type FieldService struct {
	registry *regulatory.Registry
}

// NewFieldService creates a FieldService
func NewFieldService(registry *regulatory.Registry) *FieldService {
	return &FieldService{registry: registry}
}

// ListFields returns a report type's fields in fill order, the shape the
// teller UI renders its data-entry form from
func (s *FieldService) ListFields(_ context.Context, reportType regulatory.ReportType) ([]FieldSpecResponse, error) {
	if !reportType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", fmt.Sprintf("Unknown report type %q", reportType))
	}
	specs := s.registry.ListFields(reportType)
	out := make([]FieldSpecResponse, 0, len(specs))
	for i := range specs {
		out = append(out, ToFieldSpecResponse(&specs[i]))
	}
	return out, nil
}

// ValidateValues checks captured values against the catalogue without
// persisting anything
func (s *FieldService) ValidateValues(_ context.Context, reportType regulatory.ReportType, values map[string]any) (bool, []regulatory.ValidationIssue, error) {
	if !reportType.IsValid() {
		return false, nil, shared.NewDomainError("INVALID_REPORT_TYPE", fmt.Sprintf("Unknown report type %q", reportType))
	}
	ok, issues := s.registry.ValidateValues(reportType, values)
	return ok, issues, nil
}
