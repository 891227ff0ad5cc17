package repository

import (
	"time"

	"meetsync-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sendRecordRepository implements SendRecordRepository interface
type sendRecordRepository struct {
	db *gorm.DB
}

// NewSendRecordRepository creates a new instance of sendRecordRepository
func NewSendRecordRepository(db *gorm.DB) SendRecordRepository {
	return &sendRecordRepository{
		db: db,
	}
}

func (r *sendRecordRepository) Claim(key domain.SendKey) (*domain.SendRecord, error) {
	record := &domain.SendRecord{
		ID:            uuid.New().String(),
		SubjectUID:    key.SubjectUID,
		Sequence:      key.Sequence,
		AttendeeEmail: key.AttendeeEmail,
		Method:        key.Method,
		Status:        domain.SendStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// Insert-or-fetch: a conflicting insert is silently dropped, then the
	// surviving row (ours or a concurrent claimer's) is read back.
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "subject_uid"},
			{Name: "sequence"},
			{Name: "attendee_email"},
			{Name: "method"},
		},
		DoNothing: true,
	}).Create(record).Error
	if err != nil {
		return nil, err
	}

	var existing domain.SendRecord
	err = r.db.Where(
		"subject_uid = ? AND sequence = ? AND attendee_email = ? AND method = ?",
		key.SubjectUID, key.Sequence, key.AttendeeEmail, key.Method,
	).First(&existing).Error
	if err != nil {
		return nil, err
	}

	return &existing, nil
}

func (r *sendRecordRepository) MarkSent(id string, providerMessageID string) error {
	return r.db.Model(&domain.SendRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              domain.SendStatusSent,
			"provider_message_id": providerMessageID,
			"updated_at":          time.Now(),
		}).Error
}

func (r *sendRecordRepository) RecordFailure(id string, sendErr string) error {
	return r.db.Model(&domain.SendRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.SendStatusFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": sendErr,
			"updated_at": time.Now(),
		}).Error
}
