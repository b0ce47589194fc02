package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/app/repository"
	"github.com/talentr-app/talentr/internal/pkg/env"
	"github.com/talentr-app/talentr/internal/pkg/payments"
	"github.com/talentr-app/talentr/internal/pkg/usercontext"
)

func paymentService() *payments.Service {
	repos := repository.GetGlobalRepositories()
	return payments.NewService(repos.Transaction, repos.User)
}

// HandlePaymentWebhook receives provider notifications. The signature is
// checked against the raw body before anything is parsed or written; a
// replayed order id acknowledges without fulfilling twice.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")
	if secret == "" {
		log.Printf("payment webhook rejected: PAYMENT_WEBHOOK_SECRET not configured")
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Webhook not configured")
	}

	result, err := paymentService().HandleWebhook(c.Body(), c.Get("sign"), secret)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			return jsonError(c, fiber.StatusForbidden, "forbidden", "Invalid signature")
		case errors.Is(err, payments.ErrBadPayload), errors.Is(err, payments.ErrUnknownPack):
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		default:
			log.Printf("payment webhook processing failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Webhook processing failed")
		}
	}

	return c.JSON(result)
}

// HandlePacksList exposes the purchasable credit packs.
func HandlePacksList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"packs": payments.Packs()})
}

type checkoutRequest struct {
	PurchaseType string `json:"purchase_type"` // credits | business
	PackLine     string `json:"pack_line"`
}

// HandleCheckoutCreate opens a hosted checkout session for the signed-in
// user buying a credit pack or a business subscription.
func HandleCheckoutCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	var amountMinor int64
	switch req.PurchaseType {
	case models.PurchaseTypeCredits:
		pack, ok := payments.LookupPack(req.PackLine)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown pack line")
		}
		amountMinor = pack.PriceMinor
	case models.PurchaseTypeBusiness:
		amountMinor = payments.BusinessPriceMinor
	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "purchase_type must be credits or business")
	}

	session, err := payments.NewClient().CreateCheckout(userCtx.UserID, req.PurchaseType, req.PackLine, amountMinor, "ILS")
	if err != nil {
		log.Printf("checkout creation failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusBadGateway, "bad_gateway", "Payment provider unavailable")
	}

	return c.JSON(session)
}

// HandleTransactionHistory lists the signed-in user's payment history.
func HandleTransactionHistory(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	offset, limit := parsePagination(c)
	list, err := repository.GetGlobalFactory().GetTransactionRepository().ListByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load transactions")
	}

	return c.JSON(fiber.Map{"transactions": list})
}
