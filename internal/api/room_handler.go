package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rincondelcarmen/hotel-booking/internal/availability"
	"github.com/rincondelcarmen/hotel-booking/internal/errors"
	"github.com/rincondelcarmen/hotel-booking/internal/middleware"
	"github.com/rincondelcarmen/hotel-booking/internal/models"
	"github.com/rincondelcarmen/hotel-booking/internal/services"
)

// RoomHandler serves the room catalogue, availability search and room administration
type RoomHandler struct {
	booking services.BookingService
	rooms   services.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(booking services.BookingService, rooms services.RoomService) *RoomHandler {
	return &RoomHandler{booking: booking, rooms: rooms}
}

// ListRooms returns the active rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.booking.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom returns one active room
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.booking.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// Availability searches rooms free for ?checkIn&checkOut&people
func (h *RoomHandler) Availability(c *gin.Context) {
	checkIn, checkOut, err := stayFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	people := 1
	if raw := c.Query("people"); raw != "" {
		if people, err = strconv.Atoi(raw); err != nil {
			respondError(c, errors.InvalidInput("people must be a number", err))
			return
		}
	}

	q := availability.Query{CheckIn: checkIn, CheckOut: checkOut, People: people}
	rooms, err := h.booking.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkIn":  checkIn,
		"checkOut": checkOut,
		"people":   people,
		"nights":   availability.Nights(checkIn, checkOut),
		"rooms":    rooms,
	})
}

// Quote prices a stay in one room
func (h *RoomHandler) Quote(c *gin.Context) {
	checkIn, checkOut, err := stayFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := h.booking.Quote(c.Request.Context(), c.Param("id"), checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// ListAllRooms returns every room including inactive ones
func (h *RoomHandler) ListAllRooms(c *gin.Context) {
	rooms, err := h.rooms.ListAll(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// CreateRoom adds a room to the catalogue
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var draft models.RoomDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), middleware.CurrentUser(c), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// UpdateRoom changes price and/or visibility
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	var update models.RoomUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := h.rooms.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// ToggleRoom flips the visibility of a room
func (h *RoomHandler) ToggleRoom(c *gin.Context) {
	room, err := h.rooms.ToggleActive(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// stayFromQuery reads ?checkIn and ?checkOut as YYYY-MM-DD dates
func stayFromQuery(c *gin.Context) (models.Date, models.Date, error) {
	checkIn, err := models.ParseDate(c.Query("checkIn"))
	if err != nil {
		return models.Date{}, models.Date{}, errors.InvalidInput("checkIn must be a YYYY-MM-DD date", err)
	}
	checkOut, err := models.ParseDate(c.Query("checkOut"))
	if err != nil {
		return models.Date{}, models.Date{}, errors.InvalidInput("checkOut must be a YYYY-MM-DD date", err)
	}
	return checkIn, checkOut, nil
}
