package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/middleware"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/services"
)

// ReservationHandler handles booking and cancellation
type ReservationHandler struct {
	booking services.BookingService
	admin   services.AdminService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(booking services.BookingService, admin services.AdminService) *ReservationHandler {
	return &ReservationHandler{booking: booking, admin: admin}
}

// Book reserves a room for the current user
func (h *ReservationHandler) Book(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reservation, err := h.booking.Book(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": reservation})
}

// ListMine returns the current user's reservations
func (h *ReservationHandler) ListMine(c *gin.Context) {
	reservations, err := h.booking.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// Cancel cancels a reservation of the current user, or any reservation for admins
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservation, err := h.booking.Cancel(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": reservation})
}

// ListAll returns every reservation
func (h *ReservationHandler) ListAll(c *gin.Context) {
	reservations, err := h.admin.ListReservations(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// Dashboard returns the admin summary
func (h *ReservationHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.admin.Dashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
