package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/lemonpay/internal/middleware"
	"github.com/example/lemonpay/internal/services"
)

// PaymentHandler manages checkout, webhook and account endpoints.
type PaymentHandler struct {
	payments *services.PaymentService
	verifier *services.WebhookVerifier
	catalog  services.ProductCatalog
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService, verifier *services.WebhookVerifier, catalog services.ProductCatalog) *PaymentHandler {
	return &PaymentHandler{payments: payments, verifier: verifier, catalog: catalog}
}

type createPaymentRequest struct {
	ProductID string `json:"product_id"`
}

// CreatePayment creates a pending transaction and returns the checkout URL.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.ProductID) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	checkout, err := h.payments.CreateCheckout(c.Context(), userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return fiber.NewError(fiber.StatusBadRequest, "unknown product id")
		case errors.Is(err, services.ErrUpstreamUnavailable):
			log.Printf("checkout creation failed: %v", err)
			return fiber.NewError(fiber.StatusBadGateway, "payment provider unavailable")
		case errors.Is(err, services.ErrInvalidProductData):
			log.Printf("checkout creation failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "invalid product data from provider")
		default:
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction_id": checkout.Transaction.TransactionID,
		"checkout_url":   checkout.URL,
		"amount":         checkout.Transaction.Amount,
		"status":         checkout.Transaction.Status,
	})
}

// webhookPayload is the expected shape of Lemon Squeezy webhook bodies.
type webhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			TransactionID string `json:"transaction_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

// Webhook receives Lemon Squeezy order events. Responses use the provider's
// expected {detail} shape.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	body := c.Body()

	signature := c.Get("X-Signature")
	if signature == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "missing signature"})
	}

	if !h.verifier.Verify(body, signature) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "invalid signature"})
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "malformed payload"})
	}

	eventName := payload.Meta.EventName
	transactionID := payload.Meta.CustomData.TransactionID
	if eventName == "" || transactionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "missing event name or transaction id"})
	}

	outcome, err := h.payments.HandleEvent(c.Context(), eventName, transactionID)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "transaction not found"})
		}
		log.Printf("webhook processing failed for event %s: %v", eventName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal error"})
	}

	if outcome == services.OutcomeApplied {
		return c.JSON(fiber.Map{"detail": "event processed"})
	}
	return c.JSON(fiber.Map{"detail": "event acknowledged"})
}

// GetAccount returns the authenticated user's balance, creating the account
// lazily on first access.
func (h *PaymentHandler) GetAccount(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	account, err := h.payments.EnsureAccount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":            account.ID,
		"account_value": account.Balance,
		"last_updated":  account.LastUpdated,
	})
}

// PaymentHistory returns the user's transactions, newest first.
func (h *PaymentHandler) PaymentHistory(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	txns, err := h.payments.History(c.Context(), userID)
	if err != nil {
		return err
	}

	history := make([]fiber.Map, 0, len(txns))
	for _, txn := range txns {
		history = append(history, fiber.Map{
			"id":             txn.ID,
			"transaction_id": txn.TransactionID,
			"amount":         txn.Amount,
			"currency":       txn.Currency,
			"status":         txn.Status,
			"payment_method": txn.PaymentMethod,
			"created_at":     txn.CreatedAt,
		})
	}

	return c.JSON(history)
}

// ListProducts proxies the provider's product catalog.
func (h *PaymentHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.Products(c.Context())
	if err != nil {
		log.Printf("product catalog fetch failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "payment provider unavailable")
	}

	return c.JSON(products)
}
