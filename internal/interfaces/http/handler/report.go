package handler

import (
	"github.com/gin-gonic/gin"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
)

// ReportHandler exposes report emission and maintenance
type ReportHandler struct {
	BaseHandler
	emissionService *appregulatory.EmissionService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(emissionService *appregulatory.EmissionService) *ReportHandler {
	return &ReportHandler{
		emissionService: emissionService,
	}
}

// Emit produces the report PDF for an approved reservation. Re-emitting
// against a reservation that already holds a report rewrites the PDF under
// the same report number.
func (h *ReportHandler) Emit(c *gin.Context) {
	var req appregulatory.EmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	res, err := h.emissionService.EmitReport(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if res.ReEmitted {
		h.Success(c, res)
		return
	}
	h.Created(c, res)
}

// ReconcileOrphans scans the report directory for PDFs no report row points
// at and returns their paths
func (h *ReportHandler) ReconcileOrphans(c *gin.Context) {
	orphans, err := h.emissionService.ReconcileOrphans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"orphans": orphans, "count": len(orphans)})
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.POST("/emit", h.Emit)
		reports.POST("/reconcile", h.ReconcileOrphans)
	}
}
