package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingVendor lifecycle: pending -> invited -> confirmed / declined.
// A confirmed or declined record can never be confirmed again.
const (
	PendingStatusPending   = "pending"
	PendingStatusInvited   = "invited"
	PendingStatusConfirmed = "confirmed"
	PendingStatusDeclined  = "declined"
)

// PendingVendor is a provisional vendor sourced externally (manual entry,
// scraping). Holds a link-delivered confirmation token that is consumed on
// confirmation to create or update a Vendor.
type PendingVendor struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name"`
	Category          string         `gorm:"type:varchar(100)" json:"category"`
	City              string         `gorm:"type:varchar(100)" json:"city"`
	Email             string         `gorm:"type:varchar(200)" json:"email"`
	Phone             string         `gorm:"type:varchar(30)" json:"phone"`
	Source            string         `gorm:"type:varchar(50)" json:"-"` // manual, scraper
	ConfirmationToken string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	Status            string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	DeclineReason     string         `gorm:"type:varchar(500)" json:"-"`
	InvitedAt         *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	ConfirmedAt       *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	VendorID          *uint          `gorm:"index" json:"-"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate mints the confirmation token if missing.
func (p *PendingVendor) BeforeCreate(tx *gorm.DB) error {
	if p.ConfirmationToken == "" {
		token, err := GenerateOpaqueToken()
		if err != nil {
			return err
		}
		p.ConfirmationToken = token
	}
	return nil
}

// IsConsumed reports whether the confirmation token may no longer transition
// this record (guards against token replay from a leaked link).
func (p *PendingVendor) IsConsumed() bool {
	return p.Status == PendingStatusConfirmed || p.Status == PendingStatusDeclined
}
