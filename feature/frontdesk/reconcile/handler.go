package reconcile

import (
	"clinic-desk/core/logger"
	"clinic-desk/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves reconciliation reports. It never applies repairs.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the reconcile routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/api/reconcile/:date", h.HandleReport)
}

// HandleReport returns the wait/treatment differences for a date or year.
// @Summary Reconciliation Report
// @Description Compares the waiting list with the treatment log. Read only.
// @Tags reconcile
// @Produce json
// @Param date path string true "Visit date (YYYY-MM-DD) or year (YYYY)"
// @Success 200 {object} reconcile.ReconcilePlan
// @Failure 400 {object} server.ErrorResponse
// @Router /api/reconcile/{date} [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	plan, err := h.service.Plan(c.Context(), c.Params("date"))
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		if server.Status(err) >= fiber.StatusInternalServerError {
			l.Error("Reconciliation report failed", logger.Store(err)...)
		}
		return server.Fail(c, err)
	}
	return c.JSON(plan)
}
