package handler

import (
	"github.com/gin-gonic/gin"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
)

// AuditHandler exposes the append-only audit trail
type AuditHandler struct {
	BaseHandler
	auditService *appregulatory.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *appregulatory.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListForEntity returns an entity's audit trail in chronological order
func (h *AuditHandler) ListForEntity(c *gin.Context) {
	entityKind := c.Param("entity_kind")
	entityID := c.Param("entity_id")

	events, err := h.auditService.ListForEntity(c.Request.Context(), entityKind, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, events)
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	audit := rg.Group("/audit")
	{
		audit.GET("/:entity_kind/:entity_id", h.ListForEntity)
	}
}
