package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/internal/pkg/database"
	"github.com/talentr-app/talentr/internal/pkg/mail"
	"github.com/talentr-app/talentr/internal/pkg/onboarding"
	"github.com/talentr-app/talentr/internal/pkg/usercontext"
)

func onboardingService() *onboarding.Service {
	return onboarding.NewServiceFromDB(database.GetDB(), mail.SendVendorMagicLink)
}

func onboardingErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, onboarding.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Invitation not found")
	case errors.Is(err, onboarding.ErrAlreadyConsumed):
		return jsonError(c, fiber.StatusConflict, "conflict", "This invitation was already used")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Onboarding operation failed")
	}
}

// HandleOnboardingGetPending resolves a confirmation token to the sanitized
// pending-vendor record, for prefilling the confirmation form.
func HandleOnboardingGetPending(c *fiber.Ctx) error {
	pending, err := onboardingService().GetPendingByToken(c.Params("token"))
	if err != nil {
		return onboardingErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"name":     pending.Name,
		"category": pending.Category,
		"city":     pending.City,
		"status":   pending.Status,
	})
}

type onboardingConfirmRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

// HandleOnboardingConfirm consumes the invitation token and activates the
// vendor. A second confirm attempt on the same token fails.
func HandleOnboardingConfirm(c *fiber.Ctx) error {
	var req onboardingConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	vendor, editLink, err := onboardingService().Confirm(c.Params("token"), onboarding.ConfirmInput{
		Name:     req.Name,
		Category: req.Category,
		City:     req.City,
		Phone:    req.Phone,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		return onboardingErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"vendor": vendor, "edit_url": editLink})
}

type onboardingDeclineRequest struct {
	Reason string `json:"reason"`
}

// HandleOnboardingDecline marks the invitation declined. Declining twice
// is a no-op.
func HandleOnboardingDecline(c *fiber.Ctx) error {
	var req onboardingDeclineRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if err := onboardingService().Decline(c.Params("token"), req.Reason); err != nil {
		return onboardingErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type onboardingCompleteRequest struct {
	GigID      uint   `json:"gig_id"`
	VendorName string `json:"vendor_name"`
	Category   string `json:"category"`
	City       string `json:"city"`
}

// HandleOnboardingComplete finishes the signed-in onboarding wizard: it
// creates (or reuses) the user's vendor record, links the draft gig to it
// and submits the gig for review.
func HandleOnboardingComplete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	var req onboardingCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	vendor, editLink, err := onboardingService().CompleteOnboarding(userCtx.UserID, req.GigID, req.VendorName, req.Category, req.City)
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrGigNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Gig not found")
		case errors.Is(err, onboarding.ErrNotGigOwner):
			return jsonError(c, fiber.StatusForbidden, "forbidden", "You do not own this gig")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Onboarding completion failed")
		}
	}

	return c.JSON(fiber.Map{"vendor": vendor, "edit_url": editLink})
}
