package person

import (
	"strconv"

	"clinic-desk/core/logger"
	"clinic-desk/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for persons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the person routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/persons")
	group.Get("/", h.HandleList)
	group.Get("/search", h.HandleSearch)
	group.Get("/search-id/:id", h.HandleBySearchID)
	group.Get("/:pcode", h.HandleGet)
	group.Post("/", h.HandleCreate)
	group.Put("/:pcode", h.HandleUpdate)
	group.Delete("/:pcode", h.HandleDelete)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.service.logger, c)
	if server.Status(err) >= fiber.StatusInternalServerError {
		l.Error(msg, logger.Store(err)...)
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return server.Fail(c, err)
}

func pcodeParam(c *fiber.Ctx) (int64, error) {
	pcode, err := strconv.ParseInt(c.Params("pcode"), 10, 64)
	if err != nil {
		return 0, server.BadRequest("pcode must be numeric")
	}
	return pcode, nil
}

// HandleList returns a page of persons.
// @Summary List Persons
// @Description List persons ordered by person code.
// @Tags persons
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} person.Page
// @Failure 500 {object} server.ErrorResponse
// @Router /api/persons [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	page, err := h.service.List(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return h.fail(c, "List persons failed", err)
	}
	return c.JSON(page)
}

// HandleSearch finds persons by name and/or birth date.
// @Summary Search Persons
// @Tags persons
// @Produce json
// @Param name query string false "Name fragment"
// @Param birthdate query string false "Birth date (YYYY-MM-DD)"
// @Success 200 {array} person.Person
// @Failure 400 {object} server.ErrorResponse
// @Router /api/persons/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	people, err := h.service.Search(c.Context(), c.Query("name"), c.Query("birthdate"))
	if err != nil {
		return h.fail(c, "Search persons failed", err)
	}
	return c.JSON(people)
}

// HandleBySearchID returns the persons registered under a search id.
// @Summary Get Persons By Search ID
// @Tags persons
// @Produce json
// @Param id path string true "Search ID"
// @Success 200 {array} person.Person
// @Router /api/persons/search-id/{id} [get]
func (h *Handler) HandleBySearchID(c *fiber.Ctx) error {
	people, err := h.service.BySearchID(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Search by id failed", err)
	}
	return c.JSON(people)
}

// HandleGet returns a single person.
// @Summary Get Person
// @Tags persons
// @Produce json
// @Param pcode path int true "Person code"
// @Success 200 {object} person.Person
// @Failure 404 {object} server.ErrorResponse
// @Router /api/persons/{pcode} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	pcode, err := pcodeParam(c)
	if err != nil {
		return h.fail(c, "Invalid person code", err)
	}
	p, err := h.service.Get(c.Context(), pcode)
	if err != nil {
		return h.fail(c, "Get person failed", err)
	}
	return c.JSON(p)
}

// HandleCreate registers a new person.
// @Summary Create Person
// @Tags persons
// @Accept json
// @Produce json
// @Param person body person.Person true "Person (pcode and fcode are allocated)"
// @Success 201 {object} person.Person
// @Failure 400 {object} server.ErrorResponse
// @Router /api/persons [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var p Person
	if err := c.BodyParser(&p); err != nil {
		return h.fail(c, "Invalid person body", server.BadRequest("invalid body: %v", err))
	}
	created, err := h.service.Create(c.Context(), &p)
	if err != nil {
		return h.fail(c, "Create person failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate changes fields of a person.
// @Summary Update Person
// @Tags persons
// @Accept json
// @Produce json
// @Param pcode path int true "Person code"
// @Param update body person.Update true "Fields to change"
// @Success 200 {object} person.Person
// @Failure 404 {object} server.ErrorResponse
// @Router /api/persons/{pcode} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	pcode, err := pcodeParam(c)
	if err != nil {
		return h.fail(c, "Invalid person code", err)
	}
	var u Update
	if err := c.BodyParser(&u); err != nil {
		return h.fail(c, "Invalid update body", server.BadRequest("invalid body: %v", err))
	}
	p, err := h.service.Update(c.Context(), pcode, u)
	if err != nil {
		return h.fail(c, "Update person failed", err)
	}
	return c.JSON(p)
}

// HandleDelete removes a person.
// @Summary Delete Person
// @Tags persons
// @Param pcode path int true "Person code"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Router /api/persons/{pcode} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	pcode, err := pcodeParam(c)
	if err != nil {
		return h.fail(c, "Invalid person code", err)
	}
	if err := h.service.Delete(c.Context(), pcode); err != nil {
		return h.fail(c, "Delete person failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
