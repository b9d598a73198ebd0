package auth

import (
	"crypto/subtle"
	"strings"

	"clinic-desk/core/server"

	"github.com/gofiber/fiber/v2"
)

// Header carries the API key.
const Header = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the shared secret. Empty disables authentication.
	ApiKey string
}

// New returns a middleware that rejects requests without the configured API key.
// The key is read from the X-API-Key header or an "Authorization: Bearer" header.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		if len(expected) == 0 {
			return c.Next()
		}
		key := extractKey(c)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(server.ErrorResponse{Error: "missing api key"})
		}
		if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(server.ErrorResponse{Error: "invalid api key"})
		}
		return c.Next()
	}
}

func extractKey(c *fiber.Ctx) string {
	if key := c.Get(Header); key != "" {
		return key
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
