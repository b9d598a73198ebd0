package frontdesk

import (
	"clinic-desk/core/database"
	"clinic-desk/core/visitid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	sync    *Synchronizer
	handler *Handler
}

// NewFeature creates the front-desk feature.
func NewFeature(stores *database.StoreSet, cfg Config, clock visitid.Clock, logger *zap.Logger) *Feature {
	sync := NewSynchronizer(stores, cfg, clock, logger)
	return &Feature{sync: sync, handler: NewHandler(sync, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "frontdesk"
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

// Synchronizer returns the feature's synchronizer.
func (f *Feature) Synchronizer() *Synchronizer {
	return f.sync
}
