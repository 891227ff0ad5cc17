package domain

import (
	"errors"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
)

// ProposalStatus represents the state of a reschedule negotiation.
// Transitions: pending -> approved | declined | expired. Terminal states are
// immutable.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusDeclined ProposalStatus = "declined"
	ProposalStatusExpired  ProposalStatus = "expired"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrPreconditionFailed signals that a decision raced against another
	// decision (or an expiry sweep) and lost; the caller's action did not
	// apply.
	ErrPreconditionFailed = errors.New("proposal is no longer pending")
	ErrInvalidTimeRange   = errors.New("proposed end must be after proposed start")
)

// Proposal is one round of the reschedule negotiation. A counter-proposal
// declines its predecessor and starts a fresh round with the roles swapped.
type Proposal struct {
	ID               string                    `json:"id" gorm:"primaryKey"`
	BookingID        string                    `json:"booking_id" gorm:"index;not null"`
	SubjectUID       string                    `json:"subject_uid" gorm:"index;not null"`
	ProposedBy       bookingdomain.PartyRole   `json:"proposed_by" gorm:"not null"`
	ProposerEmail    string                    `json:"proposer_email" gorm:"not null"`
	ProposedStartUTC time.Time                 `json:"proposed_start_utc" gorm:"not null"`
	ProposedEndUTC   time.Time                 `json:"proposed_end_utc" gorm:"not null"`
	Note             string                    `json:"note,omitempty"`
	Status           ProposalStatus            `json:"status" gorm:"index;default:pending"`
	ApprovedBy       *bookingdomain.PartyRole  `json:"approved_by,omitempty"`
	DecisionAt       *time.Time                `json:"decision_at,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
}

// Terminal reports whether the proposal has left pending.
func (p *Proposal) Terminal() bool {
	return p.Status != ProposalStatusPending
}
