package repository

import (
	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
)

// gigRepository implements the GigRepository interface
type gigRepository struct {
	db *gorm.DB
}

// NewGigRepository creates a new gig repository instance
func NewGigRepository(db *gorm.DB) GigRepository {
	return &gigRepository{db: db}
}

// Create creates a new gig in the database
func (r *gigRepository) Create(gig *models.Gig) error {
	return r.db.Create(gig).Error
}

// GetByID retrieves a gig by its ID
func (r *gigRepository) GetByID(id uint) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.First(&gig, id).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// GetByUUID retrieves a gig by its UUID
func (r *gigRepository) GetByUUID(uuid string) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.Where("uuid = ?", uuid).First(&gig).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// GetByShareSlug retrieves a gig by its current share slug.
// A rotated slug no longer resolves; that is the point of rotating it.
func (r *gigRepository) GetByShareSlug(slug string) (*models.Gig, error) {
	if slug == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var gig models.Gig
	err := r.db.Where("share_slug = ?", slug).First(&gig).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// GetByVendorID retrieves all gigs owned by a vendor
func (r *gigRepository) GetByVendorID(vendorID uint) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&gigs).Error
	return gigs, err
}

// Update saves the full gig row
func (r *gigRepository) Update(gig *models.Gig) error {
	return r.db.Save(gig).Error
}

// UpdateFields performs a sparse update of only the given columns.
func (r *gigRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Gig{}).Where("id = ?", id).Updates(fields).Error
}

// Delete hard-deletes the gig row (owner-requested deletion).
func (r *gigRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Gig{}, id).Error
}

// IncrementViewCount bumps the view counter by one at row level.
func (r *gigRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Gig{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// ListPublic returns published, moderation-approved gigs for public listing.
// Unlisted gigs stay reachable by link but never appear here.
func (r *gigRepository) ListPublic(offset, limit int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Where("status = ? AND moderation_status = ?", models.GigStatusPublished, models.ModerationApproved).
		Order("published_at DESC").Offset(offset).Limit(limit).Find(&gigs).Error
	return gigs, err
}

// ListByModerationStatus returns gigs pending moderation for the admin queue.
func (r *gigRepository) ListByModerationStatus(status string, offset, limit int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Where("moderation_status = ?", status).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&gigs).Error
	return gigs, err
}

// CountByVendorID returns the number of gigs owned by a vendor
func (r *gigRepository) CountByVendorID(vendorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Gig{}).Where("vendor_id = ?", vendorID).Count(&count).Error
	return count, err
}
