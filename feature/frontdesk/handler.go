package frontdesk

import (
	"errors"
	"strconv"

	"clinic-desk/core/logger"
	"clinic-desk/core/server"
	"clinic-desk/core/visitid"
	"clinic-desk/feature/treatment"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckInRequest is the body of a check-in request.
type CheckInRequest struct {
	PCode     int64  `json:"pcode"`
	VisitDate string `json:"visidate" example:"2026-02-11"`
}

// Handler handles HTTP requests for the waiting list and treatment log.
type Handler struct {
	sync   *Synchronizer
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(sync *Synchronizer, logger *zap.Logger) *Handler {
	return &Handler{sync: sync, logger: logger}
}

// RegisterRoutes registers the waiting-list and treatment routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	wait := app.Group("/api/waitlist")
	wait.Get("/:date", h.HandleWaitingList)
	wait.Post("/", h.HandleCheckIn)
	wait.Put("/:date/:pcode", h.HandleUpdateWaitEntry)
	wait.Delete("/:date/:pcode", h.HandleDeleteCheckIn)

	treatments := app.Group("/api/treatments")
	treatments.Get("/:date", h.HandleTreatmentLog)
	treatments.Post("/", h.HandleCreateTreatment)
	treatments.Put("/:date/:id", h.HandleUpdateTreatment)
	treatments.Delete("/:date/:id", h.HandleDeleteTreatment)

	app.Get("/api/schema/:date", h.HandleSchema)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.logger, c)

	status := server.Status(err)
	partial := errors.Is(err, ErrPartialCreate)
	switch {
	case partial:
		status = fiber.StatusBadGateway
	case errors.Is(err, treatment.ErrEmptyUpdate):
		status = fiber.StatusBadRequest
	}

	if status >= fiber.StatusInternalServerError {
		l.Error(msg, logger.Store(err)...)
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(server.ErrorResponse{Error: err.Error(), Partial: partial})
}

func intParam(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, server.BadRequest("%s must be numeric", name)
	}
	return v, nil
}

// HandleWaitingList returns the waiting list for a date.
// @Summary Get Waiting List
// @Tags waitlist
// @Produce json
// @Param date path string true "Visit date (YYYY-MM-DD, YYYYMMDD or YYYY-M-D)"
// @Success 200 {array} waitlist.Entry
// @Failure 400 {object} server.ErrorResponse
// @Router /api/waitlist/{date} [get]
func (h *Handler) HandleWaitingList(c *fiber.Ctx) error {
	entries, err := h.sync.GetWaitingList(c.Context(), c.Params("date"))
	if err != nil {
		return h.fail(c, "Get waiting list failed", err)
	}
	return c.JSON(entries)
}

// HandleCheckIn puts a patient on the waiting list and opens a treatment record.
// @Summary Check In
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body frontdesk.CheckInRequest true "Person and visit date"
// @Success 201 {object} frontdesk.CheckIn
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse "Wait entry written, treatment record not"
// @Router /api/waitlist [post]
func (h *Handler) HandleCheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "Invalid check-in body", server.BadRequest("invalid body: %v", err))
	}
	if req.PCode <= 0 || req.VisitDate == "" {
		return h.fail(c, "Invalid check-in body", server.BadRequest("pcode and visidate are required"))
	}

	checkIn, err := h.sync.CreateCheckIn(c.Context(), req.PCode, req.VisitDate)
	if err != nil {
		return h.fail(c, "Check-in failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(checkIn)
}

// HandleUpdateWaitEntry replaces the identifiers of a wait entry.
// @Summary Update Wait Entry
// @Tags waitlist
// @Accept json
// @Produce json
// @Param date path string true "Visit date"
// @Param pcode path int true "Person code"
// @Param ids body visitid.IDs false "Identifiers; empty values are regenerated"
// @Success 200 {object} visitid.IDs
// @Failure 404 {object} server.ErrorResponse
// @Router /api/waitlist/{date}/{pcode} [put]
func (h *Handler) HandleUpdateWaitEntry(c *fiber.Ctx) error {
	pcode, err := intParam(c, "pcode")
	if err != nil {
		return h.fail(c, "Invalid person code", err)
	}
	var ids visitid.IDs
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&ids); err != nil {
			return h.fail(c, "Invalid identifiers body", server.BadRequest("invalid body: %v", err))
		}
	}

	updated, err := h.sync.UpdateWaitEntry(c.Context(), pcode, c.Params("date"), ids)
	if err != nil {
		return h.fail(c, "Update wait entry failed", err)
	}
	return c.JSON(updated)
}

// HandleDeleteCheckIn removes a wait entry and its treatment records.
// @Summary Delete Check-In
// @Tags waitlist
// @Produce json
// @Param date path string true "Visit date"
// @Param pcode path int true "Person code"
// @Success 200 {object} frontdesk.DeleteResult
// @Failure 404 {object} server.ErrorResponse
// @Router /api/waitlist/{date}/{pcode} [delete]
func (h *Handler) HandleDeleteCheckIn(c *fiber.Ctx) error {
	pcode, err := intParam(c, "pcode")
	if err != nil {
		return h.fail(c, "Invalid person code", err)
	}
	result, err := h.sync.DeleteCheckIn(c.Context(), pcode, c.Params("date"))
	if err != nil {
		return h.fail(c, "Delete check-in failed", err)
	}
	return c.JSON(result)
}

// HandleTreatmentLog returns the treatment log for a date.
// @Summary Get Treatment Log
// @Tags treatments
// @Produce json
// @Param date path string true "Visit date"
// @Param fin query string false "Completion flag filter"
// @Success 200 {array} treatment.Record
// @Router /api/treatments/{date} [get]
func (h *Handler) HandleTreatmentLog(c *fiber.Ctx) error {
	var fin *string
	if v, ok := c.Queries()["fin"]; ok {
		fin = &v
	}
	records, err := h.sync.GetTreatmentLog(c.Context(), c.Params("date"), fin)
	if err != nil {
		return h.fail(c, "Get treatment log failed", err)
	}
	return c.JSON(records)
}

// HandleCreateTreatment adds a treatment record without a wait entry.
// @Summary Create Treatment Record
// @Tags treatments
// @Accept json
// @Produce json
// @Param record body treatment.Record true "Record"
// @Success 201 {object} treatment.Record
// @Failure 404 {object} server.ErrorResponse
// @Router /api/treatments [post]
func (h *Handler) HandleCreateTreatment(c *fiber.Ctx) error {
	var rec treatment.Record
	if err := c.BodyParser(&rec); err != nil {
		return h.fail(c, "Invalid treatment body", server.BadRequest("invalid body: %v", err))
	}
	if rec.PCode <= 0 {
		return h.fail(c, "Invalid treatment body", server.BadRequest("pcode is required"))
	}

	created, err := h.sync.CreateTreatmentRecord(c.Context(), &rec)
	if err != nil {
		return h.fail(c, "Create treatment record failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateTreatment changes fields of a treatment record.
// @Summary Update Treatment Record
// @Tags treatments
// @Accept json
// @Produce json
// @Param date path string true "Visit date"
// @Param id path int true "Sequence number"
// @Param update body treatment.Update true "Fields to change"
// @Success 200 {object} treatment.Record
// @Failure 404 {object} server.ErrorResponse
// @Router /api/treatments/{date}/{id} [put]
func (h *Handler) HandleUpdateTreatment(c *fiber.Ctx) error {
	seq, err := intParam(c, "id")
	if err != nil {
		return h.fail(c, "Invalid sequence number", err)
	}
	var u treatment.Update
	if err := c.BodyParser(&u); err != nil {
		return h.fail(c, "Invalid update body", server.BadRequest("invalid body: %v", err))
	}

	rec, err := h.sync.UpdateTreatmentRecord(c.Context(), c.Params("date"), seq, u)
	if err != nil {
		return h.fail(c, "Update treatment record failed", err)
	}
	return c.JSON(rec)
}

// HandleDeleteTreatment removes a treatment record and its wait entry.
// @Summary Delete Treatment Record
// @Tags treatments
// @Produce json
// @Param date path string true "Visit date"
// @Param id path int true "Sequence number"
// @Success 200 {object} frontdesk.DeleteResult
// @Failure 404 {object} server.ErrorResponse
// @Router /api/treatments/{date}/{id} [delete]
func (h *Handler) HandleDeleteTreatment(c *fiber.Ctx) error {
	seq, err := intParam(c, "id")
	if err != nil {
		return h.fail(c, "Invalid sequence number", err)
	}
	result, err := h.sync.DeleteTreatmentRecord(c.Context(), c.Params("date"), seq)
	if err != nil {
		return h.fail(c, "Delete treatment record failed", err)
	}
	return c.JSON(result)
}

// HandleSchema reports whether the yearly tables for a date match what the
// repositories read.
// @Summary Check Yearly Schema
// @Tags schema
// @Produce json
// @Param date path string true "Visit date or year"
// @Success 200 {object} frontdesk.SchemaReport
// @Failure 400 {object} server.ErrorResponse
// @Router /api/schema/{date} [get]
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	report, err := h.sync.CheckSchema(c.Context(), c.Params("date"))
	if err != nil {
		return h.fail(c, "Schema check failed", err)
	}
	return c.JSON(report)
}
