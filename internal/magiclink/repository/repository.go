package repository

import (
	"time"

	"meetsync-backend/internal/magiclink/domain"
)

// MagicLinkRepository defines the interface for magic-link ledger access
type MagicLinkRepository interface {
	// Create inserts a new ledger record
	Create(link *domain.MagicLink) error

	// FindByTokenHash finds a record by token hash, returning (nil, nil)
	// when absent
	FindByTokenHash(hash string) (*domain.MagicLink, error)

	// MarkUsed sets used_at, conditional on the record being unused. A zero
	// row count maps to ErrLinkAlreadyUsed so a replayed token fails
	// deterministically on its second attempt.
	MarkUsed(id string, now time.Time) error

	// FindByProposalID lists decide links issued for a proposal
	FindByProposalID(proposalID string) ([]*domain.MagicLink, error)
}
