package domain

import "time"

// SendStatus represents the delivery state of a claimed notification.
type SendStatus string

const (
	SendStatusPending SendStatus = "pending"
	SendStatusSent    SendStatus = "sent"
	SendStatusFailed  SendStatus = "failed"
)

// SendKey identifies one notification: a booking revision, a recipient and a
// semantic method. At most one SendRecord ever exists per key.
type SendKey struct {
	SubjectUID    string
	Sequence      int
	AttendeeEmail string
	Method        string
}

// SendRecord is the idempotency ledger row behind the claim-before-send
// pattern. Claimed before any delivery attempt; never deleted.
type SendRecord struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	SubjectUID        string     `json:"subject_uid" gorm:"uniqueIndex:ux_send_key,priority:1;not null"`
	Sequence          int        `json:"sequence" gorm:"uniqueIndex:ux_send_key,priority:2;not null"`
	AttendeeEmail     string     `json:"attendee_email" gorm:"uniqueIndex:ux_send_key,priority:3;not null"`
	Method            string     `json:"method" gorm:"uniqueIndex:ux_send_key,priority:4;not null"`
	Status            SendStatus `json:"status" gorm:"default:pending"`
	Attempts          int        `json:"attempts" gorm:"default:0"`
	ProviderMessageID *string    `json:"provider_message_id,omitempty"`
	LastError         *string    `json:"last_error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
