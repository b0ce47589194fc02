package bookings

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
)

var (
	// ErrForbidden means the acting vendor does not own the booking.
	ErrForbidden = errors.New("vendor does not own this booking")
	// ErrNotFound means the booking does not resolve.
	ErrNotFound = errors.New("booking not found")
	// ErrInvalidAction means the requested transition is not allowed from
	// the booking's current status.
	ErrInvalidAction = errors.New("invalid booking transition")
)

// Transition actions a vendor may apply to a booking.
const (
	ActionView     = "view"
	ActionContact  = "contact"
	ActionConfirm  = "confirm"
	ActionReject   = "reject"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

// OutcomeNotifier tells the client about a confirm/reject decision.
// Failures are logged and never fail the transition.
type OutcomeNotifier func(booking *models.BookingRequest, vendorName string) error

// Service implements the booking request lifecycle.
type Service struct {
	repo     repository.BookingRepository
	gigs     repository.GigRepository
	vendors  repository.VendorRepository
	notifier OutcomeNotifier
}

// NewService creates a booking service from injected repositories.
func NewService(repo repository.BookingRepository, gigs repository.GigRepository, vendors repository.VendorRepository, notifier OutcomeNotifier) *Service {
	if notifier == nil {
		notifier = func(*models.BookingRequest, string) error { return nil }
	}
	return &Service{repo: repo, gigs: gigs, vendors: vendors, notifier: notifier}
}

// NewServiceFromDB creates a booking service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, notifier OutcomeNotifier) *Service {
	return NewService(
		repository.NewBookingRepository(db),
		repository.NewGigRepository(db),
		repository.NewVendorRepository(db),
		notifier,
	)
}

// CreateInput carries a client's booking request. Anonymous booking is
// permitted; ClientUserID is stamped only when a session resolved.
type CreateInput struct {
	GigID         uint
	VendorID      uint
	ClientUserID  *uint
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	EventDate     *time.Time
	EventTime     string
	DurationHours int
	EventLocation string
	GuestCount    int
	Message       string
	Budget        string
}

// Create opens a booking request in status pending.
func (s *Service) Create(in CreateInput) (*models.BookingRequest, error) {
	if in.GigID == 0 || in.VendorID == 0 || in.ClientName == "" || in.ClientEmail == "" {
		return nil, errors.New("gig_id, vendor_id, client_name and client_email are required")
	}

	// The gig/vendor pair must actually exist and belong together.
	gig, err := s.gigs.GetByID(in.GigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if gig.VendorID == nil || *gig.VendorID != in.VendorID {
		return nil, ErrNotFound
	}

	booking := &models.BookingRequest{
		GigID:         in.GigID,
		VendorID:      in.VendorID,
		ClientUserID:  in.ClientUserID,
		ClientName:    in.ClientName,
		ClientEmail:   in.ClientEmail,
		ClientPhone:   in.ClientPhone,
		EventDate:     in.EventDate,
		EventTime:     in.EventTime,
		DurationHours: in.DurationHours,
		EventLocation: in.EventLocation,
		GuestCount:    in.GuestCount,
		Message:       in.Message,
		Budget:        in.Budget,
		Status:        models.BookingStatusPending,
	}
	if err := s.repo.Create(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// VendorInbox is the booking list plus the status-count summary.
type VendorInbox struct {
	Bookings []models.BookingRequest `json:"bookings"`
	Counts   map[string]int64        `json:"counts"`
}

// ListForVendor returns bookings for the owned vendor ids, optionally
// filtered by status, plus a per-status tally.
func (s *Service) ListForVendor(vendorIDs []uint, status string, offset, limit int) (*VendorInbox, error) {
	if len(vendorIDs) == 0 {
		return &VendorInbox{Bookings: []models.BookingRequest{}, Counts: map[string]int64{}}, nil
	}

	bookings, err := s.repo.ListByVendorIDs(vendorIDs, status, offset, limit)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(vendorIDs)
	if err != nil {
		return nil, err
	}
	return &VendorInbox{Bookings: bookings, Counts: counts}, nil
}

// TransitionInput carries the vendor's action and optional response fields.
type TransitionInput struct {
	Action         string
	VendorResponse string
	QuotedPrice    *int64
}

// Transition applies a vendor action to a booking it owns. Ownership is
// checked before any write; a mismatch leaves the booking untouched.
//
// view only advances pending->viewed and stamps viewed_at once; re-viewing
// an already-viewed booking is an idempotent no-op. confirm/reject stamp
// responded_at (once) and trigger the outcome notification fire-and-forget.
func (s *Service) Transition(vendorID uint, bookingID uint, in TransitionInput) (*models.BookingRequest, error) {
	booking, err := s.repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.VendorID != vendorID {
		return nil, ErrForbidden
	}

	now := time.Now()
	fields := map[string]interface{}{}
	notify := false

	switch in.Action {
	case ActionView:
		if booking.Status != models.BookingStatusPending {
			// Already past pending: idempotent no-op.
			return booking, nil
		}
		fields["status"] = models.BookingStatusViewed
		fields["viewed_at"] = &now

	case ActionContact:
		if booking.IsTerminal() {
			return nil, ErrInvalidAction
		}
		fields["status"] = models.BookingStatusContacted

	case ActionConfirm, ActionReject:
		if booking.IsTerminal() {
			return nil, ErrInvalidAction
		}
		if in.Action == ActionConfirm {
			fields["status"] = models.BookingStatusConfirmed
		} else {
			fields["status"] = models.BookingStatusRejected
		}
		if booking.RespondedAt == nil {
			fields["responded_at"] = &now
		}
		if in.VendorResponse != "" {
			fields["vendor_response"] = in.VendorResponse
		}
		if in.QuotedPrice != nil {
			fields["quoted_price"] = *in.QuotedPrice
		}
		notify = true

	case ActionComplete:
		if booking.Status != models.BookingStatusConfirmed && booking.Status != models.BookingStatusContacted {
			return nil, ErrInvalidAction
		}
		fields["status"] = models.BookingStatusCompleted

	case ActionCancel:
		if booking.Status == models.BookingStatusCompleted {
			return nil, ErrInvalidAction
		}
		fields["status"] = models.BookingStatusCancelled

	default:
		return nil, ErrInvalidAction
	}

	// viewed_at is also stamped when a response arrives before an explicit
	// view, so the timestamp pair stays monotone.
	if booking.ViewedAt == nil && in.Action != ActionView {
		fields["viewed_at"] = &now
	}

	if err := s.repo.UpdateFields(booking.ID, fields); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(booking.ID)
	if err != nil {
		return nil, err
	}

	if notify {
		vendorName := ""
		if vendor, err := s.vendors.GetByID(vendorID); err == nil {
			vendorName = vendor.Name
		}
		if err := s.notifier(updated, vendorName); err != nil {
			log.Printf("booking %d outcome notification failed: %v", updated.ID, err)
		}
	}

	return updated, nil
}

// TransitionBySessionUser applies the same transition guarantees for a
// session-authenticated caller by re-deriving vendor ownership through the
// owner_user_id column.
func (s *Service) TransitionBySessionUser(userID uint, bookingID uint, in TransitionInput) (*models.BookingRequest, error) {
	vendor, err := s.vendors.GetByOwnerUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return s.Transition(vendor.ID, bookingID, in)
}
