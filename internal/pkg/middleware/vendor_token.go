package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/usercontext"
)

// VendorTokenHeader carries the opaque vendor edit token, a long-lived
// bearer capability granting passwordless write access.
const VendorTokenHeader = "x-vendor-token"

// ErrNoVendorCredential means neither credential kind was presented.
var ErrNoVendorCredential = errors.New("no vendor credential presented")

// ResolveVendorCapability yields the acting vendor for a request regardless
// of credential kind: either the x-vendor-token capability header, or a
// bearer session whose user owns a vendor. Both paths give identical
// guarantees, so ownership checks cannot diverge between them.
func ResolveVendorCapability(c *fiber.Ctx) (*models.Vendor, error) {
	vendorRepo := repository.GetGlobalFactory().GetVendorRepository()

	if token := strings.TrimSpace(c.Get(VendorTokenHeader)); token != "" {
		return vendorRepo.GetByEditToken(token)
	}

	if userCtx := usercontext.GetUserContext(c); userCtx.IsLoggedIn {
		return vendorRepo.GetByOwnerUserID(userCtx.UserID)
	}

	return nil, ErrNoVendorCredential
}

// RequireVendor resolves the vendor capability and stores the vendor id in
// Locals; requests without a resolvable vendor get 401/404 JSON.
func RequireVendor(c *fiber.Ctx) error {
	vendor, err := ResolveVendorCapability(c)
	if err != nil {
		if errors.Is(err, ErrNoVendorCredential) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Missing vendor credential",
			})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Invalid vendor credential",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Vendor credential verification failed",
		})
	}

	c.Locals(usercontext.KeyVendorID, vendor.ID)
	c.Locals("VENDOR", vendor)
	return c.Next()
}

// VendorFromLocals returns the vendor stored by RequireVendor.
func VendorFromLocals(c *fiber.Ctx) *models.Vendor {
	if v, ok := c.Locals("VENDOR").(*models.Vendor); ok {
		return v
	}
	return nil
}
