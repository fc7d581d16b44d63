package handler

import (
	"github.com/gin-gonic/gin"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
)

// TriggerHandler exposes the rule dispatcher to the counter workflow
type TriggerHandler struct {
	BaseHandler
	triggerService *appregulatory.TriggerService
}

// NewTriggerHandler creates a new TriggerHandler
func NewTriggerHandler(triggerService *appregulatory.TriggerService) *TriggerHandler {
	return &TriggerHandler{
		triggerService: triggerService,
	}
}

// CheckTransaction evaluates a candidate transaction's facts against every
// active rule set and returns one decision per report type. A blocking
// decision is data, not an error, so the response is always 200.
func (h *TriggerHandler) CheckTransaction(c *gin.Context) {
	var req appregulatory.CheckTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	decisions, err := h.triggerService.CheckTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, decisions)
}

// RegisterRoutes registers trigger routes
func (h *TriggerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	triggers := rg.Group("/triggers")
	{
		triggers.POST("/check", h.CheckTransaction)
	}
}
