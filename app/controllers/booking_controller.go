package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/internal/pkg/bookings"
	"github.com/talentr-app/talentr/internal/pkg/database"
	"github.com/talentr-app/talentr/internal/pkg/mail"
	"github.com/talentr-app/talentr/internal/pkg/middleware"
	"github.com/talentr-app/talentr/internal/pkg/usercontext"
)

func bookingService() *bookings.Service {
	return bookings.NewServiceFromDB(database.GetDB(), mail.SendBookingOutcome)
}

func bookingErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, bookings.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You do not own this booking")
	case errors.Is(err, bookings.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Booking not found")
	case errors.Is(err, bookings.ErrInvalidAction):
		return jsonError(c, fiber.StatusConflict, "conflict", "This action is not allowed from the booking's current status")
	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
}

type bookingCreateRequest struct {
	GigID         uint   `json:"gig_id"`
	VendorID      uint   `json:"vendor_id"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	EventDate     string `json:"event_date"` // YYYY-MM-DD
	EventTime     string `json:"event_time"`
	DurationHours int    `json:"duration_hours"`
	EventLocation string `json:"event_location"`
	GuestCount    int    `json:"guest_count"`
	Message       string `json:"message"`
	Budget        string `json:"budget"`
}

// HandleBookingCreate accepts a booking request from the public gig page.
// No authentication is required; a resolved session stamps the client.
func HandleBookingCreate(c *fiber.Ctx) error {
	var req bookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	var eventDate *time.Time
	if req.EventDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "event_date must be YYYY-MM-DD")
		}
		eventDate = &parsed
	}

	var clientUserID *uint
	if id := usercontext.GetUserID(c); id != 0 {
		clientUserID = &id
	}

	booking, err := bookingService().Create(bookings.CreateInput{
		GigID:         req.GigID,
		VendorID:      req.VendorID,
		ClientUserID:  clientUserID,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		EventDate:     eventDate,
		EventTime:     req.EventTime,
		DurationHours: req.DurationHours,
		EventLocation: req.EventLocation,
		GuestCount:    req.GuestCount,
		Message:       req.Message,
		Budget:        req.Budget,
	})
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// HandleVendorInbox lists the vendor's booking requests with status counts.
// Optional ?status= filters the list; the counts always cover all statuses.
func HandleVendorInbox(c *fiber.Ctx) error {
	vendor := middleware.VendorFromLocals(c)
	if vendor == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid vendor credential")
	}

	offset, limit := parsePagination(c)
	inbox, err := bookingService().ListForVendor([]uint{vendor.ID}, c.Query("status"), offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load bookings")
	}

	return c.JSON(inbox)
}

type bookingTransitionRequest struct {
	Action         string `json:"action"`
	VendorResponse string `json:"vendor_response"`
	QuotedPrice    *int64 `json:"quoted_price"` // agorot
}

// HandleBookingTransition applies a vendor action (view/contact/confirm/
// reject/complete/cancel) through the edit-token credential.
func HandleBookingTransition(c *fiber.Ctx) error {
	vendor := middleware.VendorFromLocals(c)
	if vendor == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid vendor credential")
	}
	bookingID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid booking id")
	}

	var req bookingTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	booking, err := bookingService().Transition(vendor.ID, bookingID, bookings.TransitionInput{
		Action:         req.Action,
		VendorResponse: req.VendorResponse,
		QuotedPrice:    req.QuotedPrice,
	})
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

// HandleBookingPatchBySession is the dashboard variant of the transition:
// the acting vendor is derived from the session user's owned vendor record,
// with the same ownership guarantees as the token path.
func HandleBookingPatchBySession(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}
	bookingID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid booking id")
	}

	var req bookingTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	booking, err := bookingService().TransitionBySessionUser(userCtx.UserID, bookingID, bookings.TransitionInput{
		Action:         req.Action,
		VendorResponse: req.VendorResponse,
		QuotedPrice:    req.QuotedPrice,
	})
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}
