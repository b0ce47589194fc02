package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// BusinessPeriod is the subscription window added by a business or agency purchase.
const BusinessPeriod = 30 * 24 * time.Hour

type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email             string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password          string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role              string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status            string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	Credits           int64          `gorm:"not null;default:0" json:"credits"`
	BusinessExpiresAt *time.Time     `gorm:"type:timestamp;default:null" json:"business_expires_at"`
	AffiliateBalance  int64          `gorm:"not null;default:0" json:"affiliate_balance"` // agorot
	ReferredBy        *uint          `gorm:"index" json:"referred_by,omitempty"`          // set once at signup, immutable afterwards
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
		Status:   STATUS_ACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// HasActiveBusiness reports whether the business subscription window covers now.
func (u *User) HasActiveBusiness(now time.Time) bool {
	return u.BusinessExpiresAt != nil && u.BusinessExpiresAt.After(now)
}

// ExtendBusiness adds one business period on top of max(now, current expiry).
// The window is only ever extended, never shortened.
func (u *User) ExtendBusiness(now time.Time) time.Time {
	base := now
	if u.BusinessExpiresAt != nil && u.BusinessExpiresAt.After(now) {
		base = *u.BusinessExpiresAt
	}
	expires := base.Add(BusinessPeriod)
	u.BusinessExpiresAt = &expires
	return expires
}
