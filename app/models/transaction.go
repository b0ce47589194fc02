package models

import (
	"time"
)

// Provider payment statuses mirrored on the transaction row.
const (
	PaymentStatusPaid       = "paid"
	PaymentStatusPaidOver   = "paid_over"
	PaymentStatusFail       = "fail"
	PaymentStatusCancel     = "cancel"
	PaymentStatusSystemFail = "system_fail"
)

// Purchase types carried in the webhook metadata.
const (
	PurchaseTypeCredits  = "credits"
	PurchaseTypeBusiness = "business"
)

// Transaction holds one row per payment-provider order id. The order id is
// the idempotency key; uniqueness is enforced at the store level and the row
// is upserted on webhook re-delivery. FulfilledAt marks that the economic
// effect (credits, subscription window, referral commission) was applied,
// which happens exactly once per order id.
type Transaction struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OrderID      string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Status       string     `gorm:"type:varchar(30);index" json:"status"`
	Amount       int64      `gorm:"not null;default:0" json:"amount"` // agorot
	Currency     string     `gorm:"type:varchar(10)" json:"currency"`
	PurchaseType string     `gorm:"type:varchar(30)" json:"purchase_type"`
	PackLine     string     `gorm:"type:varchar(50)" json:"pack_line"`
	RawPayload   string     `gorm:"type:text" json:"-"`
	FulfilledAt  *time.Time `gorm:"type:timestamp;default:null" json:"fulfilled_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsPaid reports whether the provider considers the order settled.
func (t *Transaction) IsPaid() bool {
	return t.Status == PaymentStatusPaid || t.Status == PaymentStatusPaidOver
}
