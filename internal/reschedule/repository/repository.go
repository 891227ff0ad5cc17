package repository

import (
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/reschedule/domain"
)

// ProposalRepository defines the interface for proposal data access
type ProposalRepository interface {
	// Create creates a new proposal
	Create(proposal *domain.Proposal) error

	// FindByID finds a proposal by its ID, returning (nil, nil) when absent
	FindByID(id string) (*domain.Proposal, error)

	// FindByBookingID lists proposals for a booking, newest first
	FindByBookingID(bookingID string) ([]*domain.Proposal, error)

	// Decide moves a pending proposal to a terminal status. The update is
	// gated on status = pending; a zero row count maps to
	// ErrPreconditionFailed (first write wins).
	Decide(id string, to domain.ProposalStatus, approvedBy *bookingdomain.PartyRole, decisionAt time.Time) error

	// ExpireOlderThan moves pending proposals created before the cutoff to
	// expired, returning how many rows changed.
	ExpireOlderThan(cutoff time.Time) (int64, error)
}
