package reconcile

import (
	"errors"

	"github.com/chafiq1992/shopify-to-sheets/core/logger"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the sweep over HTTP.
type Handler struct {
	sweeper  *Sweeper
	registry *stores.Registry
	logger   *zap.Logger
}

// NewHandler creates a new reconcile handler.
func NewHandler(sweeper *Sweeper, registry *stores.Registry, log *zap.Logger) *Handler {
	return &Handler{sweeper: sweeper, registry: registry, logger: log}
}

// RegisterRoutes registers the reconcile routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/reconcile/:store", h.HandleSweep)
}

// HandleSweep runs a sweep for the named store synchronously and returns
// its report. A sweep already in flight for the store answers 409.
func (h *Handler) HandleSweep(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.logger, c)

	store, err := h.registry.ByName(c.Params("store"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown store"})
	}

	report, err := h.sweeper.Run(c.Context(), store, Options{DryRun: c.QueryBool("dry_run")})
	if err != nil {
		if errors.Is(err, ErrSweepRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Sweep failed", zap.String("store", store.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}
