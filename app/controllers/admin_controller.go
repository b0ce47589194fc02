package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/database"
	"github.com/talentr-app/talentr/internal/pkg/gigs"
	"github.com/talentr-app/talentr/internal/pkg/mail"
	"github.com/talentr-app/talentr/internal/pkg/onboarding"
)

// HandleAdminModerationQueue lists gigs awaiting moderation.
func HandleAdminModerationQueue(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	list, err := gigs.NewServiceFromDB(database.GetDB()).ListPendingModeration(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load moderation queue")
	}
	return c.JSON(fiber.Map{"gigs": list, "offset": offset, "limit": limit})
}

func adminSetModeration(c *fiber.Ctx, status string) error {
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	gig, err := gigs.NewServiceFromDB(database.GetDB()).SetModeration(gigID, status)
	if err != nil {
		if errors.Is(err, gigs.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Gig not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Moderation update failed")
	}

	return c.JSON(fiber.Map{"gig": gig})
}

// HandleAdminApproveGig marks a gig as moderation-approved.
func HandleAdminApproveGig(c *fiber.Ctx) error {
	return adminSetModeration(c, models.ModerationApproved)
}

// HandleAdminRejectGig marks a gig as moderation-rejected.
func HandleAdminRejectGig(c *fiber.Ctx) error {
	return adminSetModeration(c, models.ModerationRejected)
}

type pendingVendorCreateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	City     string `json:"city"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
}

// HandleAdminCreatePendingVendor registers an externally sourced vendor
// lead. The confirmation token is minted on create.
func HandleAdminCreatePendingVendor(c *fiber.Ctx) error {
	var req pendingVendorCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Name == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "name is required")
	}

	pending := &models.PendingVendor{
		Name:     req.Name,
		Category: req.Category,
		City:     req.City,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Status:   models.PendingStatusPending,
	}
	if err := repository.GetGlobalFactory().GetPendingVendorRepository().Create(pending); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create pending vendor")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"pending_vendor": pending})
}

// HandleAdminInvitePendingVendor marks a lead invited and sends the
// invitation email. Mail failure does not roll the invite back.
func HandleAdminInvitePendingVendor(c *fiber.Ctx) error {
	pendingID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid pending vendor id")
	}

	svc := onboarding.NewServiceFromDB(database.GetDB(), mail.SendVendorMagicLink)
	pending, err := svc.Invite(pendingID)
	if err != nil {
		switch {
		case errors.Is(err, onboarding.ErrNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Pending vendor not found")
		case errors.Is(err, onboarding.ErrAlreadyConsumed):
			return jsonError(c, fiber.StatusConflict, "conflict", "This lead already confirmed or declined")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Invite failed")
		}
	}

	if err := mail.SendOnboardingInvite(pending); err != nil {
		log.Printf("sending onboarding invite to pending vendor %d failed: %v", pending.ID, err)
	}

	return c.JSON(fiber.Map{"pending_vendor": pending})
}

// HandleAdminListPendingVendors lists leads by status (default pending).
func HandleAdminListPendingVendors(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	status := c.Query("status", models.PendingStatusPending)
	list, err := repository.GetGlobalFactory().GetPendingVendorRepository().ListByStatus(status, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list pending vendors")
	}
	return c.JSON(fiber.Map{"pending_vendors": list})
}
