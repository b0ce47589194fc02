package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	AddCredits(userID uint, credits int64) error
	AddAffiliateBalance(userID uint, amount int64) error
	SetBusinessExpiresAt(userID uint, expiresAt time.Time) error
	Count() (int64, error)
}

// VendorRepository defines the interface for vendor-related database operations
type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id uint) (*models.Vendor, error)
	GetByEditToken(token string) (*models.Vendor, error)
	GetByOwnerUserID(ownerUserID uint) (*models.Vendor, error)
	UpsertByOwnerUserID(vendor *models.Vendor) error
	Update(vendor *models.Vendor) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Vendor, error)
	Count() (int64, error)
}

// GigRepository defines the interface for gig-related database operations
type GigRepository interface {
	Create(gig *models.Gig) error
	GetByID(id uint) (*models.Gig, error)
	GetByUUID(uuid string) (*models.Gig, error)
	GetByShareSlug(slug string) (*models.Gig, error)
	GetByVendorID(vendorID uint) ([]models.Gig, error)
	Update(gig *models.Gig) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	IncrementViewCount(id uint) error
	ListPublic(offset, limit int) ([]models.Gig, error)
	ListByModerationStatus(status string, offset, limit int) ([]models.Gig, error)
	CountByVendorID(vendorID uint) (int64, error)
}

// PendingVendorRepository defines the interface for pending vendor operations
type PendingVendorRepository interface {
	Create(pending *models.PendingVendor) error
	GetByID(id uint) (*models.PendingVendor, error)
	GetByConfirmationToken(token string) (*models.PendingVendor, error)
	Update(pending *models.PendingVendor) error
	ListByStatus(status string, offset, limit int) ([]models.PendingVendor, error)
}

// BookingRepository defines the interface for booking request operations
type BookingRepository interface {
	Create(booking *models.BookingRequest) error
	GetByID(id uint) (*models.BookingRequest, error)
	GetByUUID(uuid string) (*models.BookingRequest, error)
	ListByVendorIDs(vendorIDs []uint, status string, offset, limit int) ([]models.BookingRequest, error)
	CountByStatus(vendorIDs []uint) (map[string]int64, error)
	Update(booking *models.BookingRequest) error
	UpdateFields(id uint, fields map[string]interface{}) error
}

// TransactionRepository defines the interface for payment transaction rows
type TransactionRepository interface {
	GetByOrderID(orderID string) (*models.Transaction, error)
	Upsert(tx *models.Transaction) error
	MarkFulfilled(id uint) error
	ListByUserID(userID uint, offset, limit int) ([]models.Transaction, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User          UserRepository
	Vendor        VendorRepository
	Gig           GigRepository
	PendingVendor PendingVendorRepository
	Booking       BookingRepository
	Transaction   TransactionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Vendor:        NewVendorRepository(db),
		Gig:           NewGigRepository(db),
		PendingVendor: NewPendingVendorRepository(db),
		Booking:       NewBookingRepository(db),
		Transaction:   NewTransactionRepository(db),
	}
}
