package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/middleware"
	"github.com/talentr-app/talentr/internal/pkg/usercontext"
)

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ReferredBy *uint  `json:"referred_by,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a user account. The referral attribution is
// captured here once and never changed afterwards.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	user, err := models.CreateUser(req.Name, strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if req.ReferredBy != nil && *req.ReferredBy != 0 {
		if _, err := repo.GetByID(*req.ReferredBy); err == nil {
			user.ReferredBy = req.ReferredBy
		} else {
			log.Printf("register: dropping unknown referrer id %d", *req.ReferredBy)
		}
	}

	if err := repo.Create(user); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Email is already registered")
	}

	token, err := middleware.GenerateSessionToken(user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue session token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

// HandleLogin verifies credentials and issues a bearer token.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}
	if !user.CheckPassword(req.Password) || !user.IsActive() {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
	}

	token, err := middleware.GenerateSessionToken(user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue session token")
	}

	return c.JSON(fiber.Map{"user": user, "token": token})
}

// HandleMe returns the authenticated user's account with its wallet state.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	return c.JSON(fiber.Map{
		"id":                  user.ID,
		"name":                user.Name,
		"email":               user.Email,
		"role":                user.Role,
		"status":              user.Status,
		"credits":             user.Credits,
		"affiliate_balance":   user.AffiliateBalance,
		"business_expires_at": formatTimePtr(user.BusinessExpiresAt),
		"created_at":          user.CreatedAt.UTC().Format(time.RFC3339),
	})
}
