package repository

import (
	"errors"
	"time"

	"meetsync-backend/internal/booking/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bookingRepository implements BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new instance of bookingRepository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{
		db: db,
	}
}

func (r *bookingRepository) Create(booking *domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.IcsUID == "" {
		booking.IcsUID = booking.ID + "@meetsync"
	}
	if booking.Status == "" {
		booking.Status = domain.BookingStatusConfirmed
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	return r.db.Create(booking).Error
}

func (r *bookingRepository) FindByID(id string) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(userID string, limit, offset int) ([]*domain.Booking, int64, error) {
	var bookings []*domain.Booking
	var total int64

	query := r.db.Model(&domain.Booking{}).Where("host_id = ? OR guest_id = ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("start_utc ASC").Limit(limit).Offset(offset).Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepository) ApplyReschedule(id string, expectedSequence int, start, end time.Time) (*domain.Booking, error) {
	result := r.db.Model(&domain.Booking{}).
		Where("id = ? AND ics_sequence = ?", id, expectedSequence).
		Updates(map[string]interface{}{
			"start_utc":    start,
			"end_utc":      end,
			"ics_sequence": gorm.Expr("ics_sequence + 1"),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrStaleSequence
	}

	return r.FindByID(id)
}

func (r *bookingRepository) Cancel(id string, expectedSequence int) (*domain.Booking, error) {
	result := r.db.Model(&domain.Booking{}).
		Where("id = ? AND ics_sequence = ?", id, expectedSequence).
		Updates(map[string]interface{}{
			"status":       domain.BookingStatusCancelled,
			"ics_sequence": gorm.Expr("ics_sequence + 1"),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrStaleSequence
	}

	return r.FindByID(id)
}
