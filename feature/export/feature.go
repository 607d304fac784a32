package export

import (
	"github.com/chafiq1992/shopify-to-sheets/core/cities"
	"github.com/chafiq1992/shopify-to-sheets/core/journal"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the export feature. The reference cache is built by
// the caller because the reconcile feature shares it for invalidation.
// trigger may be nil when the reconcile feature is disabled.
func NewFeature(sheetsClient sheets.Client, shopifyClient shopify.Client, registry *stores.Registry, normalizer *cities.Normalizer, cache *RefCache, jnl *journal.Journal, trigger SweepTrigger, log *zap.Logger, cfg Config) *Feature {
	engine := NewEngine(normalizer, cfg)
	svc := NewService(sheetsClient, shopifyClient, cache, engine, jnl, log, cfg)
	h := NewHandler(svc, registry, trigger, log)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "export"
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
