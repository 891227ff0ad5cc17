package domain

import (
	"errors"
	"time"
)

// PartyRole identifies which side of a booking an actor is on.
type PartyRole string

const (
	RoleHost  PartyRole = "host"
	RoleGuest PartyRole = "guest"
)

// BookingStatus represents the current state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrStaleSequence signals that a conditional reschedule lost a race
	// against a concurrent revision of the same booking.
	ErrStaleSequence = errors.New("booking sequence is stale")
)

// Booking is a confirmed two-party session. IcsUID is stable for the life of
// the booking; IcsSequence strictly increases on every confirmed reschedule
// or cancellation so calendar clients can resolve out-of-order updates.
type Booking struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	HostID      string        `json:"host_id" gorm:"index;not null"`
	GuestID     string        `json:"guest_id" gorm:"index;not null"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	StartUTC    time.Time     `json:"start_utc" gorm:"not null"`
	EndUTC      time.Time     `json:"end_utc" gorm:"not null"`
	IcsUID      string        `json:"ics_uid" gorm:"uniqueIndex;not null"`
	IcsSequence int           `json:"ics_sequence" gorm:"not null;default:0"`
	Status      BookingStatus `json:"status" gorm:"default:confirmed"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (b *Booking) RoleOf(userID string) (PartyRole, bool) {
	switch userID {
	case b.HostID:
		return RoleHost, true
	case b.GuestID:
		return RoleGuest, true
	}
	return "", false
}

// CounterpartOf returns the opposite role.
func CounterpartOf(role PartyRole) PartyRole {
	if role == RoleHost {
		return RoleGuest
	}
	return RoleHost
}
