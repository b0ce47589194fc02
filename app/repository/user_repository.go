package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// AddCredits increments the credit balance atomically at row level.
func (r *userRepository) AddCredits(userID uint, credits int64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", credits)).Error
}

// AddAffiliateBalance increments the referral commission balance (agorot).
func (r *userRepository) AddAffiliateBalance(userID uint, amount int64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("affiliate_balance", gorm.Expr("affiliate_balance + ?", amount)).Error
}

// SetBusinessExpiresAt writes the new subscription horizon.
func (r *userRepository) SetBusinessExpiresAt(userID uint, expiresAt time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("business_expires_at", expiresAt).Error
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
