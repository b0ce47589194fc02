package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking status state machine:
// pending -> viewed -> {contacted|confirmed|rejected} -> completed,
// cancelled reachable at any pre-completion point.
const (
	BookingStatusPending   = "pending"
	BookingStatusViewed    = "viewed"
	BookingStatusContacted = "contacted"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// BookingStatuses lists every status counted in vendor summaries.
var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusViewed,
	BookingStatusContacted,
	BookingStatusConfirmed,
	BookingStatusRejected,
	BookingStatusCompleted,
}

// BookingRequest is a client's request to book a specific gig from a
// specific vendor. Anonymous booking is permitted; client_user_id is only
// stamped when a valid session accompanies the request.
type BookingRequest struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	GigID          uint           `gorm:"index;not null" json:"gig_id"`
	VendorID       uint           `gorm:"index;not null" json:"vendor_id"`
	ClientUserID   *uint          `gorm:"index" json:"client_user_id,omitempty"`
	ClientName     string         `gorm:"type:varchar(150);not null" json:"client_name"`
	ClientEmail    string         `gorm:"type:varchar(200);not null" json:"client_email"`
	ClientPhone    string         `gorm:"type:varchar(30)" json:"client_phone"`
	EventDate      *time.Time     `gorm:"type:datetime" json:"event_date"`
	EventTime      string         `gorm:"type:varchar(10)" json:"event_time"`
	DurationHours  int            `gorm:"type:int;default:0" json:"duration_hours"`
	EventLocation  string         `gorm:"type:varchar(255)" json:"event_location"`
	GuestCount     int            `gorm:"type:int;default:0" json:"guest_count"`
	Message        string         `gorm:"type:text" json:"message"`
	Budget         string         `gorm:"type:varchar(100)" json:"budget"`
	QuotedPrice    *int64         `json:"quoted_price,omitempty"` // agorot
	VendorResponse string         `gorm:"type:text" json:"vendor_response"`
	Status         string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ViewedAt       *time.Time     `gorm:"type:timestamp;default:null" json:"viewed_at"`
	RespondedAt    *time.Time     `gorm:"type:timestamp;default:null" json:"responded_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate fills the UUID if not present.
func (b *BookingRequest) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.New().String()
	}
	return nil
}

// IsTerminal reports whether no further vendor transition is allowed.
func (b *BookingRequest) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}
