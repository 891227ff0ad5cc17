package repository

import "meetsync-backend/internal/notification/domain"

// SendRecordRepository defines the interface for the notification claim ledger
type SendRecordRepository interface {
	// Claim inserts a pending record for the key, or returns the existing
	// record when one is already present (insert-or-fetch). Concurrent
	// claimers on the same key converge on a single row; callers must skip
	// the send when the returned record is already sent.
	Claim(key domain.SendKey) (*domain.SendRecord, error)

	// MarkSent transitions the record to sent. Idempotent; last write wins.
	MarkSent(id string, providerMessageID string) error

	// RecordFailure increments attempts and stores the error. A failed
	// record may be re-claimed and retried.
	RecordFailure(id string, sendErr string) error
}
