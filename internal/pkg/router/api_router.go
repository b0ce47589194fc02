package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/talentr-app/talentr/app/controllers"
	"github.com/talentr-app/talentr/internal/pkg/cache"
	"github.com/talentr-app/talentr/internal/pkg/env"
	"github.com/talentr-app/talentr/internal/pkg/middleware"
)

type ApiRouter struct {
}

// limiterStorage backs the rate limiter with Redis so the counters are
// shared across instances instead of living per-process.
func limiterStorage() fiber.Storage {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1, // cache uses DB 0
	})
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	storage := limiterStorage()

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    storage,
	}))

	v1 := api.Group("/v1")

	// auth
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Get("/me", middleware.RequireSessionAuth, controllers.HandleMe)

	// gigs: ownership routes resolve the credential inside the handler
	// because both the edit token and a session user are acceptable
	gigsGroup := v1.Group("/gigs")
	gigsGroup.Get("/", controllers.HandleGigListPublic)
	gigsGroup.Post("/", controllers.HandleGigCreate)
	gigsGroup.Put("/:id", controllers.HandleGigUpdate)
	gigsGroup.Post("/:id/publish", controllers.HandleGigPublish)
	gigsGroup.Post("/:id/unlist", controllers.HandleGigUnlist)
	gigsGroup.Post("/:id/slug", controllers.HandleGigRegenerateSlug)
	gigsGroup.Post("/:id/archive", controllers.HandleGigArchive)
	gigsGroup.Delete("/:id", controllers.HandleGigDelete)
	v1.Get("/g/:slug", controllers.HandleGigGetBySlug)

	// bookings
	v1.Post("/bookings", controllers.HandleBookingCreate)
	v1.Patch("/bookings/:id", middleware.RequireSessionAuth, controllers.HandleBookingPatchBySession)

	// vendor dashboard (edit token or session user, one resolution path)
	vendor := v1.Group("/vendor", middleware.RequireVendor)
	vendor.Get("/me", controllers.HandleVendorProfile)
	vendor.Put("/me", controllers.HandleVendorUpdate)
	vendor.Get("/gigs", controllers.HandleGigListMine)
	vendor.Get("/bookings", controllers.HandleVendorInbox)
	vendor.Post("/bookings/:id", controllers.HandleBookingTransition)

	// onboarding
	onboarding := v1.Group("/onboarding")
	onboarding.Get("/:token", controllers.HandleOnboardingGetPending)
	onboarding.Post("/complete", middleware.RequireSessionAuth, controllers.HandleOnboardingComplete)
	onboarding.Post("/:token/confirm", controllers.HandleOnboardingConfirm)
	onboarding.Post("/:token/decline", controllers.HandleOnboardingDecline)

	// payments: the webhook gets its own tighter limiter bucket
	paymentsGroup := v1.Group("/payments")
	paymentsGroup.Post("/webhook", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		Storage:    storage,
	}), controllers.HandlePaymentWebhook)
	paymentsGroup.Get("/packs", controllers.HandlePacksList)
	paymentsGroup.Post("/checkout", middleware.RequireSessionAuth, controllers.HandleCheckoutCreate)
	paymentsGroup.Get("/transactions", middleware.RequireSessionAuth, controllers.HandleTransactionHistory)

	// admin
	admin := v1.Group("/admin", middleware.RequireSessionAuth, middleware.RequireAdmin)
	admin.Get("/moderation", controllers.HandleAdminModerationQueue)
	admin.Post("/gigs/:id/approve", controllers.HandleAdminApproveGig)
	admin.Post("/gigs/:id/reject", controllers.HandleAdminRejectGig)
	admin.Get("/pending-vendors", controllers.HandleAdminListPendingVendors)
	admin.Post("/pending-vendors", controllers.HandleAdminCreatePendingVendor)
	admin.Post("/pending-vendors/:id/invite", controllers.HandleAdminInvitePendingVendor)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
