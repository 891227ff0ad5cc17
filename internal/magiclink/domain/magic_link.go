package domain

import (
	"errors"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	"meetsync-backend/pkg/token"
)

var (
	ErrLinkNotFound    = errors.New("magic link not found")
	ErrPurposeMismatch = errors.New("magic link purpose mismatch")
	ErrLinkAlreadyUsed = errors.New("magic link already used")
	ErrLinkExpired     = errors.New("magic link expired")
)

// MagicLink is the ledger record for an issued capability token. Only the
// SHA-256 hash of the token is stored; the raw token is transmitted to the
// recipient once and never persisted. Records are kept after use as an
// audit trail.
type MagicLink struct {
	ID         string                   `json:"id" gorm:"primaryKey"`
	SubjectUID string                   `json:"subject_uid" gorm:"index;not null"`
	Purpose    token.Purpose            `json:"purpose" gorm:"not null"`
	BookingID  string                   `json:"booking_id" gorm:"index;not null"`
	ProposalID string                   `json:"proposal_id,omitempty" gorm:"index"`
	ActorEmail string                   `json:"actor_email" gorm:"not null"`
	ActorRole  bookingdomain.PartyRole  `json:"actor_role" gorm:"not null"`
	TokenHash  string                   `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time                `json:"expires_at" gorm:"not null"`
	UsedAt     *time.Time               `json:"used_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

// Active reports whether the link can still authorize an action: not yet
// used and not past expiry.
func (m *MagicLink) Active(now time.Time) bool {
	return m.UsedAt == nil && m.ExpiresAt.After(now)
}
