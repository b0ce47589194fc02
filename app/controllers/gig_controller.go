package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/cache"
	"github.com/talentr-app/talentr/internal/pkg/database"
	"github.com/talentr-app/talentr/internal/pkg/gigs"
	"github.com/talentr-app/talentr/internal/pkg/links"
	"github.com/talentr-app/talentr/internal/pkg/middleware"
	"github.com/talentr-app/talentr/internal/pkg/usercontext"
)

// Unknown slugs are remembered briefly so scripted slug scans do not hit
// the database on every probe. Known slugs always resolve through the DB
// because every public fetch counts a view.
const (
	slugMissMarker = "__miss__"
	slugMissTTL    = 5 * time.Minute
)

func gigService() *gigs.Service {
	return gigs.NewServiceFromDB(database.GetDB())
}

// gigActor resolves the acting identity from either credential kind:
// vendor edit token, or the session user (who may not have a vendor yet).
func gigActor(c *fiber.Ctx) (gigs.Actor, error) {
	actor := gigs.Actor{UserID: usercontext.GetUserID(c)}
	vendor, err := middleware.ResolveVendorCapability(c)
	if err != nil {
		if errors.Is(err, middleware.ErrNoVendorCredential) {
			if actor.UserID == 0 {
				return actor, gigs.ErrUnauthorized
			}
			return actor, nil
		}
		return actor, gigs.ErrUnauthorized
	}
	actor.VendorID = vendor.ID
	return actor, nil
}

func gigErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gigs.ErrUnauthorized):
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid credential")
	case errors.Is(err, gigs.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You do not own this gig")
	case errors.Is(err, gigs.ErrNotVisible):
		return jsonError(c, fiber.StatusForbidden, "forbidden", "This gig is not available")
	case errors.Is(err, gigs.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Gig not found")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Gig operation failed")
	}
}

type gigCreateRequest struct {
	Title         string       `json:"title"`
	Category      string       `json:"category"`
	Description   string       `json:"description"`
	Media         *models.JSON `json:"media"`
	PricingMode   string       `json:"pricing_mode"`
	PriceAmount   int64        `json:"price_amount"`
	LocationMode  string       `json:"location_mode"`
	City          string       `json:"city"`
	RadiusKM      int          `json:"radius_km"`
	Audience      *models.JSON `json:"audience"`
	BookingMethod string       `json:"booking_method"`
}

// HandleGigCreate opens a new draft gig.
func HandleGigCreate(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}

	var req gigCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	gig, err := gigService().Create(actor, gigs.CreateInput{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Media:         req.Media,
		PricingMode:   req.PricingMode,
		PriceAmount:   req.PriceAmount,
		LocationMode:  req.LocationMode,
		City:          req.City,
		RadiusKM:      req.RadiusKM,
		Audience:      req.Audience,
		BookingMethod: req.BookingMethod,
	})
	if err != nil {
		return gigErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"gig": gig, "share_url": links.GigShare(gig.ShareSlug)})
}

type gigUpdateRequest struct {
	Title         *string      `json:"title"`
	Category      *string      `json:"category"`
	Description   *string      `json:"description"`
	Media         *models.JSON `json:"media"`
	PricingMode   *string      `json:"pricing_mode"`
	PriceAmount   *int64       `json:"price_amount"`
	LocationMode  *string      `json:"location_mode"`
	City          *string      `json:"city"`
	RadiusKM      *int         `json:"radius_km"`
	Audience      *models.JSON `json:"audience"`
	BookingMethod *string      `json:"booking_method"`
	CurrentStep   *int         `json:"current_step"`
}

// HandleGigUpdate applies a sparse update to an owned gig.
func HandleGigUpdate(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	var req gigUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	gig, err := gigService().Update(actor, gigID, gigs.UpdateInput{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Media:         req.Media,
		PricingMode:   req.PricingMode,
		PriceAmount:   req.PriceAmount,
		LocationMode:  req.LocationMode,
		City:          req.City,
		RadiusKM:      req.RadiusKM,
		Audience:      req.Audience,
		BookingMethod: req.BookingMethod,
		CurrentStep:   req.CurrentStep,
	})
	if err != nil {
		return gigErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"gig": gig})
}

// HandleGigPublish moves an owned gig into the published state.
func HandleGigPublish(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	gig, err := gigService().Publish(actor, gigID)
	if err != nil {
		return gigErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"gig": gig, "share_url": links.GigShare(gig.ShareSlug)})
}

// HandleGigUnlist takes a gig off the public listing and rotates its slug.
func HandleGigUnlist(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	oldSlug := ""
	if existing, lookupErr := repository.GetGlobalFactory().GetGigRepository().GetByID(gigID); lookupErr == nil {
		oldSlug = existing.ShareSlug
	}

	gig, err := gigService().Unlist(actor, gigID)
	if err != nil {
		return gigErrorResponse(c, err)
	}

	// The replaced slug must stop resolving immediately.
	if oldSlug != "" && oldSlug != gig.ShareSlug {
		if err := cache.Delete(cache.GigSlugKey(oldSlug)); err != nil {
			log.Printf("cache invalidation for slug %s failed: %v", oldSlug, err)
		}
	}

	return c.JSON(fiber.Map{"gig": gig, "share_url": links.GigShare(gig.ShareSlug)})
}

// HandleGigArchive retires an owned gig.
func HandleGigArchive(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	gig, err := gigService().Archive(actor, gigID)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"gig": gig})
}

// HandleGigRegenerateSlug rotates the share slug of an owned gig.
func HandleGigRegenerateSlug(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	oldSlug, newSlug, err := gigService().RegenerateSlug(actor, gigID)
	if err != nil {
		return gigErrorResponse(c, err)
	}

	if err := cache.Delete(cache.GigSlugKey(oldSlug)); err != nil {
		log.Printf("cache invalidation for slug %s failed: %v", oldSlug, err)
	}

	return c.JSON(fiber.Map{
		"old_slug":  oldSlug,
		"new_slug":  newSlug,
		"share_url": links.GigShare(newSlug),
	})
}

// HandleGigGetBySlug resolves a public gig page and counts the view.
func HandleGigGetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Slug missing")
	}

	if val, err := cache.Get(cache.GigSlugKey(slug)); err == nil && val == slugMissMarker {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Gig not found")
	}

	gig, err := gigService().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gigs.ErrNotFound) {
			if cacheErr := cache.Set(cache.GigSlugKey(slug), slugMissMarker, slugMissTTL); cacheErr != nil {
				log.Printf("caching slug miss for %s failed: %v", slug, cacheErr)
			}
		}
		return gigErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"gig": gig})
}

// HandleGigDelete removes an owned gig permanently.
func HandleGigDelete(c *fiber.Ctx) error {
	actor, err := gigActor(c)
	if err != nil {
		return gigErrorResponse(c, err)
	}
	gigID, err := parseUintParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid gig id")
	}

	if err := gigService().Delete(actor, gigID); err != nil {
		return gigErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGigListPublic returns the published, approved catalog.
func HandleGigListPublic(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	list, err := gigService().ListPublic(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list gigs")
	}
	return c.JSON(fiber.Map{"gigs": list, "offset": offset, "limit": limit})
}

// HandleGigListMine returns every gig of the acting vendor, any status.
func HandleGigListMine(c *fiber.Ctx) error {
	vendor := middleware.VendorFromLocals(c)
	if vendor == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid vendor credential")
	}
	list, err := gigService().ListForVendor(vendor.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list gigs")
	}
	return c.JSON(fiber.Map{"gigs": list})
}
