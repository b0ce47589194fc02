package payments

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
)

var (
	// ErrInvalidSignature means the sign header did not match the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrUnknownPack means the metadata named a pack line that does not exist.
	ErrUnknownPack = errors.New("unknown credit pack")
	// ErrBadPayload means the webhook body or its metadata did not parse.
	ErrBadPayload = errors.New("invalid webhook payload")
)

// Result describes what a webhook delivery did.
type Result struct {
	OrderID   string `json:"order_id"`
	Applied   bool   `json:"applied"`   // fulfillment executed on this delivery
	Duplicate bool   `json:"duplicate"` // order id was already fulfilled
	Ignored   bool   `json:"ignored"`   // non-paid status, acknowledged as no-op
}

// Service applies the economic effect of confirmed payments exactly once
// per provider order id.
type Service struct {
	transactions repository.TransactionRepository
	users        repository.UserRepository
}

// NewService creates a payments service from injected repositories.
func NewService(transactions repository.TransactionRepository, users repository.UserRepository) *Service {
	return &Service{transactions: transactions, users: users}
}

// NewServiceFromDB creates a payments service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		repository.NewTransactionRepository(db),
		repository.NewUserRepository(db),
	)
}

// HandleWebhook processes one inbound delivery:
//
//  1. signature verification (caller passes the raw body and sign header)
//  2. status filter: only paid/paid_over proceed, the rest are acknowledged
//  3. idempotency gate by order id, checked BEFORE any mutation
//  4. transaction upsert (safe to repeat)
//  5. fulfillment branch by purchase type
//  6. referral commission to the referrer, on every paid fulfillment
//
// Re-delivery of an already-fulfilled order id is a successful no-op.
func (s *Service) HandleWebhook(rawBody []byte, signatureHeader, secret string) (*Result, error) {
	if !VerifySignature(rawBody, signatureHeader, secret) {
		return nil, ErrInvalidSignature
	}

	payload, meta, err := ParseWebhookPayload(rawBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if payload.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", ErrBadPayload)
	}

	result := &Result{OrderID: payload.OrderID}

	// Non-paid statuses (fail, cancel, system_fail, refunds) are recorded
	// and acknowledged, never fulfilled.
	paid := payload.Status == models.PaymentStatusPaid || payload.Status == models.PaymentStatusPaidOver
	if !paid {
		result.Ignored = true
		if meta != nil && meta.UserID != 0 {
			if err := s.upsertTransaction(payload, meta, rawBody); err != nil {
				log.Printf("recording non-paid transaction %s failed: %v", payload.OrderID, err)
			}
		}
		return result, nil
	}

	if meta == nil || meta.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user metadata", ErrBadPayload)
	}

	// Idempotency gate: a fulfilled order id is terminal. The row's status
	// mirrors the latest delivery and may have been flipped to a non-paid
	// value by an interleaved cancel, so the gate looks at fulfilled_at only.
	existing, err := s.transactions.GetByOrderID(payload.OrderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.FulfilledAt != nil {
		result.Duplicate = true
		if err := s.upsertTransaction(payload, meta, rawBody); err != nil {
			log.Printf("upserting replayed transaction %s failed: %v", payload.OrderID, err)
		}
		return result, nil
	}

	if err := s.upsertTransaction(payload, meta, rawBody); err != nil {
		return nil, err
	}
	tx, err := s.transactions.GetByOrderID(payload.OrderID)
	if err != nil {
		return nil, err
	}

	amountMinor, err := ParseAmountMinor(payload.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if err := s.fulfill(meta, amountMinor); err != nil {
		return nil, err
	}
	if err := s.transactions.MarkFulfilled(tx.ID); err != nil {
		return nil, err
	}

	result.Applied = true
	return result, nil
}

// fulfill applies the purchase effect and the referral commission.
func (s *Service) fulfill(meta *AdditionalData, amountMinor int64) error {
	user, err := s.users.GetByID(meta.UserID)
	if err != nil {
		return err
	}

	now := time.Now()
	switch meta.Type {
	case models.PurchaseTypeCredits:
		pack, ok := LookupPack(meta.PackLine)
		if !ok {
			return ErrUnknownPack
		}
		if err := s.users.AddCredits(user.ID, pack.Credits); err != nil {
			return err
		}
		if pack.IncludesBusiness {
			expires := user.ExtendBusiness(now)
			if err := s.users.SetBusinessExpiresAt(user.ID, expires); err != nil {
				return err
			}
		}

	case models.PurchaseTypeBusiness:
		expires := user.ExtendBusiness(now)
		if err := s.users.SetBusinessExpiresAt(user.ID, expires); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown purchase type %q", ErrBadPayload, meta.Type)
	}

	// Referral commission: 50% of the amount to the referrer, on every
	// paid fulfillment regardless of pack type.
	if user.ReferredBy != nil && *user.ReferredBy != 0 {
		if err := s.users.AddAffiliateBalance(*user.ReferredBy, CommissionMinor(amountMinor)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) upsertTransaction(payload *WebhookPayload, meta *AdditionalData, rawBody []byte) error {
	amountMinor, err := ParseAmountMinor(payload.Amount)
	if err != nil {
		amountMinor = 0
	}
	tx := &models.Transaction{
		OrderID:      payload.OrderID,
		UserID:       meta.UserID,
		Status:       payload.Status,
		Amount:       amountMinor,
		Currency:     payload.Currency,
		PurchaseType: meta.Type,
		PackLine:     meta.PackLine,
		RawPayload:   string(rawBody),
	}
	return s.transactions.Upsert(tx)
}
