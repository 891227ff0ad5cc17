package repository

import (
	"errors"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	"meetsync-backend/internal/reschedule/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// proposalRepository implements ProposalRepository interface
type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new instance of proposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{
		db: db,
	}
}

func (r *proposalRepository) Create(proposal *domain.Proposal) error {
	if proposal.ID == "" {
		proposal.ID = uuid.New().String()
	}
	if proposal.Status == "" {
		proposal.Status = domain.ProposalStatusPending
	}
	proposal.CreatedAt = time.Now()
	return r.db.Create(proposal).Error
}

func (r *proposalRepository) FindByID(id string) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.Where("id = ?", id).First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindByBookingID(bookingID string) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at DESC").Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *proposalRepository) Decide(id string, to domain.ProposalStatus, approvedBy *bookingdomain.PartyRole, decisionAt time.Time) error {
	result := r.db.Model(&domain.Proposal{}).
		Where("id = ? AND status = ?", id, domain.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":      to,
			"approved_by": approvedBy,
			"decision_at": decisionAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPreconditionFailed
	}
	return nil
}

func (r *proposalRepository) ExpireOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Model(&domain.Proposal{}).
		Where("status = ? AND created_at < ?", domain.ProposalStatusPending, cutoff).
		Update("status", domain.ProposalStatusExpired)
	return result.RowsAffected, result.Error
}
