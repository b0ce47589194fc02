package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Vendor struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerUserID *uint          `gorm:"uniqueIndex" json:"owner_user_id,omitempty"` // at most one vendor per owner user
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Category    string         `gorm:"type:varchar(100);index" json:"category"`
	City        string         `gorm:"type:varchar(100);index" json:"city"`
	Bio         string         `gorm:"type:text" json:"bio" validate:"max=2000"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`
	Email       string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Whatsapp    string         `gorm:"type:varchar(30)" json:"whatsapp"`
	Rating      float32        `gorm:"type:decimal(3,2);default:0" json:"rating"`
	EditToken   string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Vendor) Validate() error {
	return validator.New().Struct(v)
}

// BeforeCreate mints the edit token if the vendor does not carry one yet.
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.EditToken == "" {
		token, err := GenerateOpaqueToken()
		if err != nil {
			return err
		}
		v.EditToken = token
	}
	return nil
}

// GenerateOpaqueToken returns a 64 character hex bearer capability.
// Used for vendor edit tokens and pending vendor confirmation tokens.
func GenerateOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
