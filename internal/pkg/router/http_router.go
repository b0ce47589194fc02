package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/app/controllers"
	"github.com/talentr-app/talentr/internal/pkg/middleware"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Session context resolves an optional bearer token into locals for
	// every route; routes decide for themselves whether auth is required.
	app.Use(middleware.SessionContext())

	// Public share links live at the root, outside the API prefix.
	app.Get("/g/:slug", controllers.HandleGigGetBySlug)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
