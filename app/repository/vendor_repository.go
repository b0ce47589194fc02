package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentr-app/talentr/app/models"
)

// vendorRepository implements the VendorRepository interface
type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository instance
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

// Create creates a new vendor in the database
func (r *vendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// GetByID retrieves a vendor by their ID
func (r *vendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.First(&vendor, id).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetByEditToken resolves a vendor edit token by direct equality lookup.
func (r *vendorRepository) GetByEditToken(token string) (*models.Vendor, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var vendor models.Vendor
	err := r.db.Where("edit_token = ?", token).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetByOwnerUserID retrieves the vendor owned by the given user, if any.
func (r *vendorRepository) GetByOwnerUserID(ownerUserID uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("owner_user_id = ?", ownerUserID).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// UpsertByOwnerUserID atomically creates or updates the single vendor row per
// owner user. The unique index on owner_user_id makes concurrent onboarding
// completions safe; the row is re-read afterwards so the edit token of an
// existing vendor is preserved.
func (r *vendorRepository) UpsertByOwnerUserID(vendor *models.Vendor) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"category",
			"city",
			"updated_at",
		}),
	}).Create(vendor).Error; err != nil {
		return err
	}

	return r.db.Where("owner_user_id = ?", vendor.OwnerUserID).First(vendor).Error
}

// Update updates an existing vendor in the database
func (r *vendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// Delete soft deletes a vendor by their ID
func (r *vendorRepository) Delete(id uint) error {
	return r.db.Delete(&models.Vendor{}, id).Error
}

// List retrieves a paginated list of vendors
func (r *vendorRepository) List(offset, limit int) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&vendors).Error
	return vendors, err
}

// Count returns the total number of vendors
func (r *vendorRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Vendor{}).Count(&count).Error
	return count, err
}
