package reconcile

import (
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the reconcile feature around an existing sweeper.
func NewFeature(sweeper *Sweeper, registry *stores.Registry, log *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(sweeper, registry, log)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reconcile"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
