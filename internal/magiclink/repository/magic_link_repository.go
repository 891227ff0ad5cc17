package repository

import (
	"errors"
	"time"

	"meetsync-backend/internal/magiclink/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// magicLinkRepository implements MagicLinkRepository interface
type magicLinkRepository struct {
	db *gorm.DB
}

// NewMagicLinkRepository creates a new instance of magicLinkRepository
func NewMagicLinkRepository(db *gorm.DB) MagicLinkRepository {
	return &magicLinkRepository{
		db: db,
	}
}

func (r *magicLinkRepository) Create(link *domain.MagicLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	link.CreatedAt = time.Now()
	return r.db.Create(link).Error
}

func (r *magicLinkRepository) FindByTokenHash(hash string) (*domain.MagicLink, error) {
	var link domain.MagicLink
	err := r.db.Where("token_hash = ?", hash).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *magicLinkRepository) MarkUsed(id string, now time.Time) error {
	result := r.db.Model(&domain.MagicLink{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrLinkAlreadyUsed
	}
	return nil
}

func (r *magicLinkRepository) FindByProposalID(proposalID string) ([]*domain.MagicLink, error) {
	var links []*domain.MagicLink
	err := r.db.Where("proposal_id = ?", proposalID).Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}
