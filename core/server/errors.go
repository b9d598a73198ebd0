package server

import (
	"errors"
	"fmt"

	"clinic-desk/core/database"
	"clinic-desk/core/shard"
	"clinic-desk/core/visitid"

	"github.com/gofiber/fiber/v2"
)

// ErrBadRequest marks input that failed validation.
var ErrBadRequest = errors.New("bad request")

// BadRequest builds a validation error.
func BadRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Partial bool   `json:"partial,omitempty"`
}

// Status maps an error onto an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, database.ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, shard.ErrInvalidDate),
		errors.Is(err, visitid.ErrInvalidVisitDate):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail writes err as a JSON error with the mapped status.
func Fail(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(ErrorResponse{Error: err.Error()})
}
