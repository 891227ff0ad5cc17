package usecase

import (
	"time"

	"meetsync-backend/internal/booking/domain"
)

// BookingUsecase defines the interface for booking business logic
type BookingUsecase interface {
	// CreateBooking creates a confirmed booking between a host and a guest
	// (guest identified by email; an identity record is created on demand)
	CreateBooking(hostID, guestEmail, guestName, title, description, location string, start, end time.Time) (*domain.Booking, error)

	// GetBooking retrieves a booking with an ownership check
	GetBooking(userID, bookingID string) (*domain.Booking, error)

	// ListBookings lists the user's bookings
	ListBookings(userID string, limit, offset int) ([]*domain.Booking, int64, error)
}
