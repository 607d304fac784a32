package export

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/chafiq1992/shopify-to-sheets/core/logger"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"
	"github.com/chafiq1992/shopify-to-sheets/feature/export/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SweepTrigger starts a reconciliation sweep for a store if none is
// already running. Implemented by the reconcile feature.
type SweepTrigger interface {
	TrySweep(store *stores.Store)
}

// Handler handles order webhook requests.
type Handler struct {
	service  *Service
	registry *stores.Registry
	trigger  SweepTrigger
	logger   *zap.Logger
}

// NewHandler creates a new webhook handler. trigger may be nil.
func NewHandler(service *Service, registry *stores.Registry, trigger SweepTrigger, log *zap.Logger) *Handler {
	return &Handler{service: service, registry: registry, trigger: trigger, logger: log}
}

// RegisterRoutes registers the webhook routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/webhook")
	group.Post("/orders-updated", h.HandleOrderUpdated)
}

// HandleOrderUpdated authenticates, parses, and processes one order event.
//
// Authenticated and parsed requests always answer 200 with success JSON,
// whatever the business outcome: the upstream notifier must not retry
// forever on business-logic skips. Only unknown stores (400), signature
// mismatches (403), and malformed bodies (400) are rejected.
func (h *Handler) HandleOrderUpdated(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.logger, c)

	store, err := h.registry.ByDomain(c.Get("X-Shopify-Shop-Domain"))
	if err != nil {
		l.Warn("Webhook from unknown shop domain", zap.String("domain", c.Get("X-Shopify-Shop-Domain")))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown store"})
	}

	body := c.Body()
	if !VerifySignature(store.WebhookSecret, body, c.Get("X-Shopify-Hmac-Sha256")) {
		l.Warn("Webhook signature mismatch", zap.String("store", store.Name))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid signature"})
	}

	event, err := models.ParseOrderEvent(body)
	if err != nil {
		l.Warn("Malformed webhook body", zap.String("store", store.Name), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed event"})
	}

	l.Info("Webhook received", zap.String("store", store.Name), zap.String("order", event.Name))

	result, err := h.service.Process(c.Context(), store, event)
	if err != nil {
		l.Error("Order processing failed", zap.String("order", event.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if h.trigger != nil && result.Action != KindSkip {
		h.trigger.TrySweep(store)
	}

	return c.JSON(fiber.Map{"success": true})
}

// VerifySignature checks the webhook HMAC-SHA256 signature in constant
// time. The header carries the base64-encoded digest of the raw body.
func VerifySignature(secret string, body []byte, header string) bool {
	if header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
