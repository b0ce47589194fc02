package repository

import (
	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
)

// bookingRepository implements the BookingRepository interface
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository instance
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking request
func (r *bookingRepository) Create(booking *models.BookingRequest) error {
	return r.db.Create(booking).Error
}

// GetByID retrieves a booking request by ID
func (r *bookingRepository) GetByID(id uint) (*models.BookingRequest, error) {
	var booking models.BookingRequest
	err := r.db.First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByUUID retrieves a booking request by its public UUID
func (r *bookingRepository) GetByUUID(uuid string) (*models.BookingRequest, error) {
	var booking models.BookingRequest
	err := r.db.Where("uuid = ?", uuid).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByVendorIDs returns bookings for the given vendors, optionally filtered
// by status, newest first.
func (r *bookingRepository) ListByVendorIDs(vendorIDs []uint, status string, offset, limit int) ([]models.BookingRequest, error) {
	var bookings []models.BookingRequest
	query := r.db.Where("vendor_id IN ?", vendorIDs)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error
	return bookings, err
}

// CountByStatus tallies bookings per status for the vendor summary.
func (r *bookingRepository) CountByStatus(vendorIDs []uint) (map[string]int64, error) {
	var results []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&models.BookingRequest{}).
		Select("status, COUNT(*) as count").
		Where("vendor_id IN ?", vendorIDs).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.BookingStatuses))
	for _, status := range models.BookingStatuses {
		counts[status] = 0
	}
	for _, result := range results {
		counts[result.Status] = result.Count
	}
	return counts, nil
}

// Update saves the booking row
func (r *bookingRepository) Update(booking *models.BookingRequest) error {
	return r.db.Save(booking).Error
}

// UpdateFields performs a sparse update of only the given columns.
func (r *bookingRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.BookingRequest{}).Where("id = ?", id).Updates(fields).Error
}
