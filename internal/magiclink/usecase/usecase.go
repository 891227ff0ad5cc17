package usecase

import (
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/magiclink/domain"
	"meetsync-backend/pkg/token"
)

// IssueRequest describes the capability to mint.
type IssueRequest struct {
	SubjectUID    string
	BookingID     string
	ProposalID    string
	ProposedStart *time.Time
	ProposedEnd   *time.Time
	ActorEmail    string
	ActorRole     bookingdomain.PartyRole
	Purpose       token.Purpose
}

// IssuedLink carries the raw token back to the caller. The raw token is
// embedded in an email link exactly once and never stored.
type IssuedLink struct {
	LinkID    string
	Token     string
	URL       string
	ExpiresAt time.Time
}

// MagicLinkUsecase layers single-use ledger tracking on top of the
// stateless token codec.
type MagicLinkUsecase interface {
	// Issue signs a capability token and records its hash in the ledger
	Issue(req IssueRequest) (*IssuedLink, error)

	// RequireActive verifies the token cryptographically, then checks the
	// ledger for an active record with the expected purpose. It never
	// consumes the token, so idempotent "view" callers can pass the same
	// token repeatedly.
	RequireActive(rawToken string, expected token.Purpose) (*domain.MagicLink, *token.Payload, error)

	// MarkUsed consumes the token for a state-changing action. Exactly one
	// call succeeds per link; replays get ErrLinkAlreadyUsed.
	MarkUsed(link *domain.MagicLink) error
}
