package regulatory

import (
	"context"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// AuditService reads the append-only audit trail
type AuditService struct {
	auditRepo regulatory.AuditRepository
}

// NewAuditService creates an AuditService
func NewAuditService(auditRepo regulatory.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// ListForEntity returns the trail of one entity, newest first
func (s *AuditService) ListForEntity(ctx context.Context, entityKind, entityID string) ([]AuditEventResponse, error) {
	events, err := s.auditRepo.ListForEntity(ctx, entityKind, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]AuditEventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToAuditEventResponse(&events[i]))
	}
	return out, nil
}
