package gigs

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/env"
	"github.com/talentr-app/talentr/internal/pkg/shortener"
)

// Share slug lengths: short at creation, longer when rotated so a revoked
// link can never be guessed back.
const (
	createSlugLength     = 8
	regenerateSlugLength = 12
)

var (
	// ErrUnauthorized means no usable credential accompanied the request.
	ErrUnauthorized = errors.New("missing or invalid credential")
	// ErrForbidden means the credential does not own the gig.
	ErrForbidden = errors.New("credential does not own this gig")
	// ErrNotFound means the gig does not resolve by id or slug.
	ErrNotFound = errors.New("gig not found")
	// ErrNotVisible means the gig exists but may not be served publicly.
	ErrNotVisible = errors.New("gig is not publicly visible")
)

// Actor identifies who is acting on a gig: a vendor resolved from either
// credential kind, and/or a session user (onboarding drafts have no vendor).
type Actor struct {
	VendorID uint
	UserID   uint
}

// Service implements the gig lifecycle: create, edit, publish, unlist,
// slug rotation, public resolution and moderation.
type Service struct {
	repo repository.GigRepository
}

// NewService creates a gig service from an injected repository.
func NewService(repo repository.GigRepository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a gig service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewGigRepository(db))
}

// CreateInput carries the initial draft fields.
type CreateInput struct {
	Title         string
	Category      string
	Description   string
	Media         *models.JSON
	PricingMode   string
	PriceAmount   int64
	LocationMode  string
	City          string
	RadiusKM      int
	Audience      *models.JSON
	BookingMethod string
}

// Create opens a new draft gig. Requires a resolved vendor or, on the
// onboarding path where no vendor exists yet, a session user id.
func (s *Service) Create(actor Actor, in CreateInput) (*models.Gig, error) {
	if actor.VendorID == 0 && actor.UserID == 0 {
		return nil, ErrUnauthorized
	}

	slug, err := shortener.GenerateSecureSlug(createSlugLength)
	if err != nil {
		return nil, err
	}

	gig := &models.Gig{
		Title:            in.Title,
		Category:         in.Category,
		Description:      in.Description,
		Media:            in.Media,
		PricingMode:      defaultString(in.PricingMode, models.PricingFixed),
		PriceAmount:      in.PriceAmount,
		LocationMode:     defaultString(in.LocationMode, models.LocationCity),
		City:             in.City,
		RadiusKM:         in.RadiusKM,
		Audience:         in.Audience,
		BookingMethod:    in.BookingMethod,
		Status:           models.GigStatusDraft,
		ModerationStatus: models.ModerationPending,
		ShareSlug:        slug,
		WizardCompleted:  false,
		CurrentStep:      0,
	}
	if actor.VendorID != 0 {
		gig.VendorID = &actor.VendorID
	}
	if actor.UserID != 0 {
		gig.OwnerUserID = &actor.UserID
	}

	if err := s.repo.Create(gig); err != nil {
		return nil, err
	}
	return gig, nil
}

// UpdateInput is a sparse merge: only non-nil fields are written.
type UpdateInput struct {
	Title         *string
	Category      *string
	Description   *string
	Media         *models.JSON
	PricingMode   *string
	PriceAmount   *int64
	LocationMode  *string
	City          *string
	RadiusKM      *int
	Audience      *models.JSON
	BookingMethod *string
	CurrentStep   *int
}

// Update applies a sparse merge to an owned gig; absent fields are untouched.
func (s *Service) Update(actor Actor, gigID uint, in UpdateInput) (*models.Gig, error) {
	gig, err := s.getOwned(actor, gigID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Media != nil {
		fields["media"] = *in.Media
	}
	if in.PricingMode != nil {
		fields["pricing_mode"] = *in.PricingMode
	}
	if in.PriceAmount != nil {
		fields["price_amount"] = *in.PriceAmount
	}
	if in.LocationMode != nil {
		fields["location_mode"] = *in.LocationMode
	}
	if in.City != nil {
		fields["city"] = *in.City
	}
	if in.RadiusKM != nil {
		fields["radius_km"] = *in.RadiusKM
	}
	if in.Audience != nil {
		fields["audience"] = *in.Audience
	}
	if in.BookingMethod != nil {
		fields["booking_method"] = *in.BookingMethod
	}
	if in.CurrentStep != nil {
		fields["current_step"] = *in.CurrentStep
	}
	if len(fields) == 0 {
		return gig, nil
	}

	if err := s.repo.UpdateFields(gig.ID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(gig.ID)
}

// Publish makes an owned gig live. Moderation is auto-approved only when the
// AUTO_APPROVE_ON_PUBLISH policy toggle is on; otherwise the gig stays
// moderation-pending and hence publicly invisible until admin review.
func (s *Service) Publish(actor Actor, gigID uint) (*models.Gig, error) {
	gig, err := s.getOwned(actor, gigID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":           models.GigStatusPublished,
		"wizard_completed": true,
		"published_at":     &now,
	}
	if env.GetBool("AUTO_APPROVE_ON_PUBLISH", true) {
		fields["moderation_status"] = models.ModerationApproved
	}

	if err := s.repo.UpdateFields(gig.ID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(gig.ID)
}

// Unlist takes an owned gig off the public listing while keeping it
// reachable by link. The share slug is rotated so the old link dies.
func (s *Service) Unlist(actor Actor, gigID uint) (*models.Gig, error) {
	gig, err := s.getOwned(actor, gigID)
	if err != nil {
		return nil, err
	}

	slug, err := shortener.GenerateSecureSlug(createSlugLength)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":           models.GigStatusUnlisted,
		"share_slug":       slug,
		"wizard_completed": true,
	}
	if err := s.repo.UpdateFields(gig.ID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(gig.ID)
}

// RegenerateSlug rotates the share slug of an owned gig and returns both
// values so the caller can display "previous link revoked".
func (s *Service) RegenerateSlug(actor Actor, gigID uint) (oldSlug, newSlug string, err error) {
	gig, err := s.getOwned(actor, gigID)
	if err != nil {
		return "", "", err
	}

	newSlug, err = shortener.GenerateSecureSlug(regenerateSlugLength)
	if err != nil {
		return "", "", err
	}

	oldSlug = gig.ShareSlug
	if err := s.repo.UpdateFields(gig.ID, map[string]interface{}{"share_slug": newSlug}); err != nil {
		return "", "", err
	}
	return oldSlug, newSlug, nil
}

// GetBySlug resolves a gig by share slug for public consumption and bumps
// the view counter on success. Every page load counts, repeats included.
func (s *Service) GetBySlug(slug string) (*models.Gig, error) {
	gig, err := s.repo.GetByShareSlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if gig.Status == models.GigStatusDraft || gig.Status == models.GigStatusArchived {
		return nil, ErrNotVisible
	}
	if !gig.IsPubliclyVisible() {
		return nil, ErrNotFound
	}

	if err := s.repo.IncrementViewCount(gig.ID); err != nil {
		return nil, err
	}
	gig.ViewCount++
	return gig, nil
}

// Archive retires an owned gig. Archived gigs keep their data and slug but
// refuse public resolution.
func (s *Service) Archive(actor Actor, gigID uint) (*models.Gig, error) {
	gig, err := s.getOwned(actor, gigID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(gig.ID, map[string]interface{}{"status": models.GigStatusArchived}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(gig.ID)
}

// Delete hard-deletes an owned gig.
func (s *Service) Delete(actor Actor, gigID uint) error {
	gig, err := s.getOwned(actor, gigID)
	if err != nil {
		return err
	}
	return s.repo.Delete(gig.ID)
}

// ListForVendor returns every gig owned by the vendor.
func (s *Service) ListForVendor(vendorID uint) ([]models.Gig, error) {
	return s.repo.GetByVendorID(vendorID)
}

// ListPublic returns published, approved gigs for the public listing.
func (s *Service) ListPublic(offset, limit int) ([]models.Gig, error) {
	return s.repo.ListPublic(offset, limit)
}

// SetModeration writes the moderation verdict (admin only, enforced at the
// route level).
func (s *Service) SetModeration(gigID uint, status string) (*models.Gig, error) {
	if status != models.ModerationApproved && status != models.ModerationRejected && status != models.ModerationPending {
		return nil, errors.New("invalid moderation status")
	}
	if _, err := s.repo.GetByID(gigID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.repo.UpdateFields(gigID, map[string]interface{}{"moderation_status": status}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(gigID)
}

// ListPendingModeration returns the admin review queue.
func (s *Service) ListPendingModeration(offset, limit int) ([]models.Gig, error) {
	return s.repo.ListByModerationStatus(models.ModerationPending, offset, limit)
}

// getOwned fetches the gig and enforces ownership: the acting vendor must
// match the gig's vendor, or — for vendor-less onboarding drafts — the
// acting user must be the draft's owner. Mismatch is Forbidden, never a
// partial write.
func (s *Service) getOwned(actor Actor, gigID uint) (*models.Gig, error) {
	gig, err := s.repo.GetByID(gigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if gig.VendorID != nil {
		if actor.VendorID == 0 {
			return nil, ErrUnauthorized
		}
		if *gig.VendorID != actor.VendorID {
			return nil, ErrForbidden
		}
		return gig, nil
	}

	if gig.OwnerUserID != nil && actor.UserID != 0 && *gig.OwnerUserID == actor.UserID {
		return gig, nil
	}
	if actor.VendorID == 0 && actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	return nil, ErrForbidden
}

func defaultString(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
