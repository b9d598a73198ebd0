package reconcile

import (
	"time"

	"clinic-desk/core/database"
	"clinic-desk/core/storage"
	"clinic-desk/feature/frontdesk"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReportCacheTTL bounds how long report indices are reused by the HTTP route.
const ReportCacheTTL = 30 * time.Second

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the reconcile feature. archive may be nil.
func NewFeature(stores *database.StoreSet, sync *frontdesk.Synchronizer, archive *storage.Archive, logger *zap.Logger) *Feature {
	svc := NewService(NewAdapter(stores, sync), archive, ReportCacheTTL, logger)
	return &Feature{service: svc, handler: NewHandler(svc, logger)}
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

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
