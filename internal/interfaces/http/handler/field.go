package handler

import (
	"github.com/gin-gonic/gin"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// FieldHandler exposes the report-field catalogue
type FieldHandler struct {
	BaseHandler
	fieldService *appregulatory.FieldService
}

// NewFieldHandler creates a new FieldHandler
func NewFieldHandler(fieldService *appregulatory.FieldService) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
	}
}

// ValidateValuesRequest carries captured form values for dry-run validation
type ValidateValuesRequest struct {
	Values map[string]any `json:"values" binding:"required"`
}

// ValidateValuesResponse reports the validation outcome
type ValidateValuesResponse struct {
	Valid  bool                         `json:"valid"`
	Issues []regulatory.ValidationIssue `json:"issues,omitempty"`
}

// ListFields returns a report type's data-entry schema in fill order
func (h *FieldHandler) ListFields(c *gin.Context) {
	reportType := regulatory.ReportType(c.Param("report_type"))

	fields, err := h.fieldService.ListFields(c.Request.Context(), reportType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fields)
}

// ValidateValues checks captured values against the catalogue without
// persisting anything
func (h *FieldHandler) ValidateValues(c *gin.Context) {
	reportType := regulatory.ReportType(c.Param("report_type"))

	var req ValidateValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	valid, issues, err := h.fieldService.ValidateValues(c.Request.Context(), reportType, req.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ValidateValuesResponse{Valid: valid, Issues: issues})
}

// RegisterRoutes registers field catalogue routes
func (h *FieldHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fields := rg.Group("/fields")
	{
		fields.GET("/:report_type", h.ListFields)
		fields.POST("/:report_type/validate", h.ValidateValues)
	}
}
