package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
)

// ReservationHandler exposes the pre-approval workflow
type ReservationHandler struct {
	BaseHandler
	reservationService *appregulatory.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *appregulatory.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// Create opens a pending reservation for a blocked transaction
func (h *ReservationHandler) Create(c *gin.Context) {
	var req appregulatory.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	res, err := h.reservationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, res)
}

// Decide records a reviewer's approval or rejection of a pending reservation
func (h *ReservationHandler) Decide(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	var req appregulatory.DecideReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	res, err := h.reservationService.Decide(c.Request.Context(), reservationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, res)
}

// GetByID returns a single reservation
func (h *ReservationHandler) GetByID(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	res, err := h.reservationService.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, res)
}

// LookupStatus returns a customer's reservations for the teller's
// pre-transaction check
func (h *ReservationHandler) LookupStatus(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		h.BadRequest(c, "customer_id is required")
		return
	}

	items, err := h.reservationService.LookupStatus(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// RegisterRoutes registers reservation routes
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.Create)
		reservations.GET("/status", h.LookupStatus)
		reservations.GET("/:id", h.GetByID)
		reservations.POST("/:id/decision", h.Decide)
	}
}
