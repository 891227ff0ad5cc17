package repository

import (
	"time"

	"meetsync-backend/internal/booking/domain"
)

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	// Create creates a new booking
	Create(booking *domain.Booking) error

	// FindByID finds a booking by its ID, returning (nil, nil) when absent
	FindByID(id string) (*domain.Booking, error)

	// FindByUserID finds bookings where the user is host or guest
	FindByUserID(userID string, limit, offset int) ([]*domain.Booking, int64, error)

	// ApplyReschedule moves the booking to new times and bumps its ics
	// sequence. The update is conditional on the expected sequence; a zero
	// row count maps to ErrStaleSequence so racing writers fail instead of
	// silently double-applying.
	ApplyReschedule(id string, expectedSequence int, start, end time.Time) (*domain.Booking, error)

	// Cancel marks the booking cancelled and bumps its ics sequence
	Cancel(id string, expectedSequence int) (*domain.Booking, error)
}
