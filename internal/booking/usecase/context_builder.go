package usecase

import (
	"fmt"

	authrepo "meetsync-backend/internal/auth/repository"
	"meetsync-backend/internal/booking/domain"
)

// Party is a resolved participant identity.
type Party struct {
	UserID string
	Name   string
	Email  string
	Role   domain.PartyRole
}

// Context is a booking resolved into the identities and descriptive text the
// calendar builder needs.
type Context struct {
	Booking *domain.Booking
	Host    Party
	Guest   Party
	Summary string
}

func (c *Context) PartyByRole(role domain.PartyRole) Party {
	if role == domain.RoleHost {
		return c.Host
	}
	return c.Guest
}

// ContextBuilder resolves bookings against the identity store. Loosely-typed
// data never crosses this boundary; missing identities surface as
// ErrIdentityNotFound.
type ContextBuilder struct {
	userRepo authrepo.UserRepository
}

func NewContextBuilder(userRepo authrepo.UserRepository) *ContextBuilder {
	return &ContextBuilder{
		userRepo: userRepo,
	}
}

func (b *ContextBuilder) Build(booking *domain.Booking) (*Context, error) {
	host, err := b.resolve(booking.HostID, domain.RoleHost)
	if err != nil {
		return nil, err
	}
	guest, err := b.resolve(booking.GuestID, domain.RoleGuest)
	if err != nil {
		return nil, err
	}

	summary := booking.Title
	if summary == "" {
		summary = fmt.Sprintf("Session: %s and %s", host.Name, guest.Name)
	}

	return &Context{
		Booking: booking,
		Host:    host,
		Guest:   guest,
		Summary: summary,
	}, nil
}

func (b *ContextBuilder) resolve(userID string, role domain.PartyRole) (Party, error) {
	user, err := b.userRepo.FindByID(userID)
	if err != nil {
		return Party{}, err
	}
	if user == nil {
		return Party{}, fmt.Errorf("%w: user %s", domain.ErrIdentityNotFound, userID)
	}
	return Party{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   role,
	}, nil
}
