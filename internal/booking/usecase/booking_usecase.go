package usecase

import (
	"errors"
	"time"

	authdomain "meetsync-backend/internal/auth/domain"
	authrepo "meetsync-backend/internal/auth/repository"
	"meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/booking/repository"
)

// bookingUsecase implements BookingUsecase interface
type bookingUsecase struct {
	bookingRepo repository.BookingRepository
	userRepo    authrepo.UserRepository
}

// NewBookingUsecase creates a new instance of bookingUsecase
func NewBookingUsecase(bookingRepo repository.BookingRepository, userRepo authrepo.UserRepository) BookingUsecase {
	return &bookingUsecase{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

func (u *bookingUsecase) CreateBooking(hostID, guestEmail, guestName, title, description, location string, start, end time.Time) (*domain.Booking, error) {
	if !end.After(start) {
		return nil, errors.New("end must be after start")
	}

	host, err := u.userRepo.FindByID(hostID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, domain.ErrIdentityNotFound
	}

	// Guests do not need an account; they get an identity record so the
	// context builder can resolve them.
	guest, err := u.userRepo.FindByEmail(guestEmail)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		guest = &authdomain.User{
			Email: guestEmail,
			Name:  guestName,
		}
		if err := u.userRepo.Create(guest); err != nil {
			return nil, err
		}
	}

	booking := &domain.Booking{
		HostID:      hostID,
		GuestID:     guest.ID,
		Title:       title,
		Description: description,
		Location:    location,
		StartUTC:    start.UTC(),
		EndUTC:      end.UTC(),
	}
	if err := u.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (u *bookingUsecase) GetBooking(userID, bookingID string) (*domain.Booking, error) {
	booking, err := u.bookingRepo.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	if _, ok := booking.RoleOf(userID); !ok {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (u *bookingUsecase) ListBookings(userID string, limit, offset int) ([]*domain.Booking, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return u.bookingRepo.FindByUserID(userID, limit, offset)
}
