package repository

import (
	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
)

// pendingVendorRepository implements the PendingVendorRepository interface
type pendingVendorRepository struct {
	db *gorm.DB
}

// NewPendingVendorRepository creates a new pending vendor repository instance
func NewPendingVendorRepository(db *gorm.DB) PendingVendorRepository {
	return &pendingVendorRepository{db: db}
}

// Create creates a new pending vendor record
func (r *pendingVendorRepository) Create(pending *models.PendingVendor) error {
	return r.db.Create(pending).Error
}

// GetByID retrieves a pending vendor by ID
func (r *pendingVendorRepository) GetByID(id uint) (*models.PendingVendor, error) {
	var pending models.PendingVendor
	err := r.db.First(&pending, id).Error
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

// GetByConfirmationToken resolves a confirmation token by equality lookup.
func (r *pendingVendorRepository) GetByConfirmationToken(token string) (*models.PendingVendor, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var pending models.PendingVendor
	err := r.db.Where("confirmation_token = ?", token).First(&pending).Error
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

// Update saves the pending vendor row
func (r *pendingVendorRepository) Update(pending *models.PendingVendor) error {
	return r.db.Save(pending).Error
}

// ListByStatus returns pending vendors filtered by lifecycle status
func (r *pendingVendorRepository) ListByStatus(status string, offset, limit int) ([]models.PendingVendor, error) {
	var pendings []models.PendingVendor
	err := r.db.Where("status = ?", status).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&pendings).Error
	return pendings, err
}
