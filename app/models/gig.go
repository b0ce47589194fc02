package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSON stores raw JSON documents in the database (media lists, audience data).
type JSON json.RawMessage

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = JSON("{}")
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	*j = JSON(bytes)
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = JSON(data)
	return nil
}

// Gig status values. pending_review is only entered through onboarding
// completion, never directly by the vendor.
const (
	GigStatusDraft         = "draft"
	GigStatusPendingReview = "pending_review"
	GigStatusUnlisted      = "unlisted"
	GigStatusPublished     = "published"
	GigStatusArchived      = "archived"
)

// Moderation status values, independent of publish status.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// Pricing modes.
const (
	PricingFixed  = "fixed"
	PricingHourly = "hourly"
	PricingFrom   = "from"
)

// Location modes.
const (
	LocationCity        = "city"
	LocationRadius      = "radius"
	LocationCountrywide = "countrywide"
	LocationOnline      = "online"
)

type Gig struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	VendorID         *uint          `gorm:"index" json:"vendor_id,omitempty"` // nullable: vendor-less draft during onboarding
	OwnerUserID      *uint          `gorm:"index" json:"owner_user_id,omitempty"`
	Title            string         `gorm:"type:varchar(255)" json:"title"`
	Category         string         `gorm:"type:varchar(100);index" json:"category"`
	Description      string         `gorm:"type:text" json:"description"`
	Media            *JSON          `gorm:"type:json" json:"media"`
	PricingMode      string         `gorm:"type:varchar(20);default:'fixed'" json:"pricing_mode"`
	PriceAmount      int64          `gorm:"not null;default:0" json:"price_amount"` // agorot
	LocationMode     string         `gorm:"type:varchar(20);default:'city'" json:"location_mode"`
	City             string         `gorm:"type:varchar(100)" json:"city"`
	RadiusKM         int            `gorm:"type:int;default:0" json:"radius_km"`
	Audience         *JSON          `gorm:"type:json" json:"audience"`
	BookingMethod    string         `gorm:"type:varchar(30)" json:"booking_method"`
	CurrentStep      int            `gorm:"type:int;default:0" json:"current_step"`
	WizardCompleted  bool           `gorm:"default:false" json:"wizard_completed"`
	Status           string         `gorm:"type:varchar(30);default:'draft';index" json:"status"`
	ModerationStatus string         `gorm:"type:varchar(20);default:'pending';index" json:"moderation_status"`
	ShareSlug        string         `gorm:"type:varchar(20);uniqueIndex" json:"share_slug"`
	ViewCount        int            `gorm:"default:0" json:"view_count"`
	PublishedAt      *time.Time     `gorm:"type:datetime" json:"published_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate fills the UUID if not present.
func (g *Gig) BeforeCreate(tx *gorm.DB) error {
	if g.UUID == "" {
		g.UUID = uuid.New().String()
	}
	return nil
}

// IsPubliclyVisible reports whether the gig may be served on its share link.
// A gig is visible only when published or unlisted AND moderation approved.
func (g *Gig) IsPubliclyVisible() bool {
	if g.ModerationStatus != ModerationApproved {
		return false
	}
	return g.Status == GigStatusPublished || g.Status == GigStatusUnlisted
}

// IncrementViewCount bumps the view counter by exactly one.
// Not deduplicated per visitor: every page load counts.
func (g *Gig) IncrementViewCount(db *gorm.DB) error {
	return db.Model(g).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
