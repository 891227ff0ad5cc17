package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/booking/usecase"

	"github.com/gin-gonic/gin"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingUsecase usecase.BookingUsecase) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
	}
}

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	GuestEmail  string    `json:"guest_email" binding:"required,email"`
	GuestName   string    `json:"guest_name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
}

// CreateBooking creates a new booking hosted by the authenticated user
// POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID := c.GetString("userID")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(userID, req.GuestEmail, req.GuestName, req.Title, req.Description, req.Location, req.Start, req.End)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns one of the user's bookings
// GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID := c.GetString("userID")
	bookingID := c.Param("id")

	booking, err := h.bookingUsecase.GetBooking(userID, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListBookings returns bookings where the user is host or guest
// GET /api/bookings?limit=50&offset=0
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, total, err := h.bookingUsecase.ListBookings(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
	})
}
