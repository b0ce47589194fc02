package onboarding

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/links"
)

var (
	// ErrNotFound means the confirmation token does not resolve.
	ErrNotFound = errors.New("pending vendor not found")
	// ErrAlreadyConsumed means the token belongs to a confirmed or declined
	// record and must not transition it again (token replay guard).
	ErrAlreadyConsumed = errors.New("confirmation token already consumed")
	// ErrGigNotFound means the onboarding draft gig does not resolve.
	ErrGigNotFound = errors.New("gig not found")
	// ErrNotGigOwner means the session user does not own the draft gig.
	ErrNotGigOwner = errors.New("gig is not owned by this user")
)

// MagicLinkNotifier mails the vendor edit link after confirmation.
// Failures are logged and never fail the confirmation.
type MagicLinkNotifier func(vendor *models.Vendor) error

// Service converts externally sourced pending vendors into active vendor
// records, and completes the signed-in onboarding path.
type Service struct {
	pendings repository.PendingVendorRepository
	vendors  repository.VendorRepository
	gigs     repository.GigRepository
	notifier MagicLinkNotifier
}

// NewService creates an onboarding service from injected repositories.
func NewService(pendings repository.PendingVendorRepository, vendors repository.VendorRepository, gigs repository.GigRepository, notifier MagicLinkNotifier) *Service {
	if notifier == nil {
		notifier = func(*models.Vendor) error { return nil }
	}
	return &Service{pendings: pendings, vendors: vendors, gigs: gigs, notifier: notifier}
}

// NewServiceFromDB creates an onboarding service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, notifier MagicLinkNotifier) *Service {
	return NewService(
		repository.NewPendingVendorRepository(db),
		repository.NewVendorRepository(db),
		repository.NewGigRepository(db),
		notifier,
	)
}

// GetPendingByToken returns the pending vendor for an invite token. The
// model's JSON tags keep sensitive fields (tokens, source) out of responses.
func (s *Service) GetPendingByToken(token string) (*models.PendingVendor, error) {
	pending, err := s.pendings.GetByConfirmationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pending, nil
}

// ConfirmInput carries optional field overrides supplied by the vendor on
// the confirmation page.
type ConfirmInput struct {
	Name     string
	Category string
	City     string
	Phone    string
	Email    string
	Bio      string
}

// Confirm consumes a confirmation token: transitions the pending record to
// confirmed and creates (or updates) the corresponding Vendor, minting an
// edit token if the vendor does not carry one. The magic-link email is
// fire-and-forget.
func (s *Service) Confirm(token string, in ConfirmInput) (*models.Vendor, string, error) {
	pending, err := s.GetPendingByToken(token)
	if err != nil {
		return nil, "", err
	}
	if pending.IsConsumed() {
		return nil, "", ErrAlreadyConsumed
	}

	vendor := &models.Vendor{
		Name:     override(in.Name, pending.Name),
		Category: override(in.Category, pending.Category),
		City:     override(in.City, pending.City),
		Phone:    override(in.Phone, pending.Phone),
		Email:    override(in.Email, pending.Email),
		Bio:      in.Bio,
	}

	if pending.VendorID != nil {
		existing, err := s.vendors.GetByID(*pending.VendorID)
		if err == nil {
			existing.Name = vendor.Name
			existing.Category = vendor.Category
			existing.City = vendor.City
			existing.Phone = vendor.Phone
			existing.Email = vendor.Email
			if vendor.Bio != "" {
				existing.Bio = vendor.Bio
			}
			if updateErr := s.vendors.Update(existing); updateErr != nil {
				return nil, "", updateErr
			}
			vendor = existing
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
	}
	if vendor.ID == 0 {
		if err := s.vendors.Create(vendor); err != nil {
			return nil, "", err
		}
	}

	now := time.Now()
	pending.Status = models.PendingStatusConfirmed
	pending.ConfirmedAt = &now
	pending.VendorID = &vendor.ID
	if err := s.pendings.Update(pending); err != nil {
		return nil, "", err
	}

	if err := s.notifier(vendor); err != nil {
		log.Printf("magic link mail for vendor %d failed: %v", vendor.ID, err)
	}

	return vendor, links.VendorEdit(vendor.EditToken), nil
}

// Decline marks a pending record declined with a reason. Declining an
// already-declined record is an idempotent no-op.
func (s *Service) Decline(token string, reason string) error {
	pending, err := s.GetPendingByToken(token)
	if err != nil {
		return err
	}
	if pending.Status == models.PendingStatusDeclined {
		return nil
	}
	if pending.Status == models.PendingStatusConfirmed {
		return ErrAlreadyConsumed
	}

	pending.Status = models.PendingStatusDeclined
	pending.DeclineReason = reason
	return s.pendings.Update(pending)
}

// CompleteOnboarding finishes the signed-in path: upserts the single vendor
// per owner user (unique index keeps concurrent requests from
// double-inserting), links the draft gig to it and submits the gig for
// review. Returns the vendor edit link.
func (s *Service) CompleteOnboarding(userID uint, gigID uint, vendorName, category, city string) (*models.Vendor, string, error) {
	if userID == 0 || gigID == 0 {
		return nil, "", errors.New("user_id and gig_id are required")
	}

	gig, err := s.gigs.GetByID(gigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrGigNotFound
		}
		return nil, "", err
	}
	if gig.OwnerUserID == nil || *gig.OwnerUserID != userID {
		return nil, "", ErrNotGigOwner
	}

	vendor := &models.Vendor{
		OwnerUserID: &userID,
		Name:        vendorName,
		Category:    category,
		City:        city,
	}
	if err := s.vendors.UpsertByOwnerUserID(vendor); err != nil {
		return nil, "", err
	}

	fields := map[string]interface{}{
		"vendor_id":         vendor.ID,
		"status":            models.GigStatusPendingReview,
		"moderation_status": models.ModerationPending,
	}
	if err := s.gigs.UpdateFields(gig.ID, fields); err != nil {
		return nil, "", err
	}

	return vendor, links.VendorEdit(vendor.EditToken), nil
}

// Invite transitions a pending record to invited and records the timestamp.
// The actual mail is sent by the caller so admin tooling can batch it.
func (s *Service) Invite(pendingID uint) (*models.PendingVendor, error) {
	pending, err := s.pendings.GetByID(pendingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if pending.IsConsumed() {
		return nil, ErrAlreadyConsumed
	}

	now := time.Now()
	pending.Status = models.PendingStatusInvited
	pending.InvitedAt = &now
	if err := s.pendings.Update(pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func override(val, def string) string {
	if val != "" {
		return val
	}
	return def
}
