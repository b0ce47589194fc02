package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/links"
	"github.com/talentr-app/talentr/internal/pkg/mail"
	"github.com/talentr-app/talentr/internal/pkg/middleware"
)

// HandleVendorProfile returns the acting vendor's own profile, resolved
// from either the edit token or the session user.
func HandleVendorProfile(c *fiber.Ctx) error {
	vendor := middleware.VendorFromLocals(c)
	if vendor == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid vendor credential")
	}

	return c.JSON(fiber.Map{
		"vendor":       vendor,
		"edit_url":     links.VendorEdit(vendor.EditToken),
		"whatsapp_url": mail.WhatsAppLink(vendor.Whatsapp, ""),
	})
}

type vendorUpdateRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	City     *string `json:"city"`
	Bio      *string `json:"bio"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Whatsapp *string `json:"whatsapp"`
}

// HandleVendorUpdate edits the acting vendor's profile fields.
func HandleVendorUpdate(c *fiber.Ctx) error {
	vendor := middleware.VendorFromLocals(c)
	if vendor == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid vendor credential")
	}

	var req vendorUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Category != nil {
		vendor.Category = *req.Category
	}
	if req.City != nil {
		vendor.City = *req.City
	}
	if req.Bio != nil {
		vendor.Bio = *req.Bio
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Whatsapp != nil {
		vendor.Whatsapp = *req.Whatsapp
	}

	if err := repository.GetGlobalFactory().GetVendorRepository().Update(vendor); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update vendor")
	}

	return c.JSON(fiber.Map{"vendor": vendor})
}
