package usecase

import (
	"context"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	magicusecase "meetsync-backend/internal/magiclink/usecase"
	"meetsync-backend/internal/notification"
	"meetsync-backend/internal/reschedule/domain"
	"meetsync-backend/pkg/ics"
)

// DecideAction is what a decide-link holder does with a pending proposal.
type DecideAction string

const (
	ActionAgree   DecideAction = "agree"
	ActionCancel  DecideAction = "cancel"
	ActionPropose DecideAction = "propose" // counter-proposal
)

// ViewResponse is the snapshot returned to a link holder. Viewing is
// idempotent and never consumes the token.
type ViewResponse struct {
	Booking    *bookingdomain.Booking   `json:"booking"`
	Proposal   *domain.Proposal         `json:"proposal,omitempty"`
	ActorRole  bookingdomain.PartyRole  `json:"actor_role"`
	ActorEmail string                   `json:"actor_email"`
}

type ProposeRequest struct {
	Token string
	Start time.Time
	End   time.Time
	Note  string
}

type DecideRequest struct {
	Token        string
	Action       DecideAction
	CounterStart *time.Time
	CounterEnd   *time.Time
	Note         string
}

// DecideResult reports the effected status. For counter-proposals the
// declined original and the fresh proposal are both returned.
type DecideResult struct {
	Status          domain.ProposalStatus `json:"status"`
	Proposal        *domain.Proposal      `json:"proposal"`
	CounterProposal *domain.Proposal      `json:"counter_proposal,omitempty"`
}

// Notifier is the slice of the notification service the orchestrator needs.
type Notifier interface {
	DispatchCalendarUpdate(ctx context.Context, ev ics.Event, subject, textBody string) error
	DispatchPlain(ctx context.Context, subjectUID, method string, to notification.Recipient, subject, textBody string) error
}

// RescheduleUsecase is the negotiation orchestrator: it authenticates
// capability tokens, drives the proposal state machine and triggers
// counterparty notifications.
type RescheduleUsecase interface {
	// IssueProposeLink mints a propose-reschedule link for one party of a
	// booking and emails it to them. Host-authenticated.
	IssueProposeLink(ctx context.Context, hostUserID, bookingID string, recipient bookingdomain.PartyRole) (*magicusecase.IssuedLink, error)

	// View returns booking and proposal details for any active link
	View(rawToken string) (*ViewResponse, error)

	// Propose creates a pending proposal and notifies the counterparty with
	// a decide link. The propose token is not consumed.
	Propose(ctx context.Context, req ProposeRequest) (*domain.Proposal, error)

	// Decide consumes the decide token exactly once and applies the
	// decision. Racing decisions on the same proposal resolve first write
	// wins; losers get ErrPreconditionFailed.
	Decide(ctx context.Context, req DecideRequest) (*DecideResult, error)

	// CancelBooking cancels a booking, bumps its calendar sequence and
	// emits CANCEL artifacts to both parties. Host-authenticated.
	CancelBooking(ctx context.Context, hostUserID, bookingID string) (*bookingdomain.Booking, error)

	// ListProposals lists proposals for one of the host's bookings
	ListProposals(hostUserID, bookingID string) ([]*domain.Proposal, error)
}
