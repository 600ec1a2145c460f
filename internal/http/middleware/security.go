package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// SecurityHeaders sets the hardening headers on every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderXXSSProtection, "1; mode=block")
		c.Set(fiber.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains")

		return err
	}
}

// CORS allows the configured origins. Any "*" entry switches to wildcard mode.
// Credentials are only allowed for an explicit origin list, browsers reject them alongside a wildcard.
func CORS(origins []string) fiber.Handler {
	explicit := make([]string, 0, len(origins))
	wildcard := len(origins) == 0
	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			wildcard = true
		default:
			explicit = append(explicit, o)
		}
	}
	allow := "*"
	if !wildcard && len(explicit) > 0 {
		allow = strings.Join(explicit, ",")
	} else {
		wildcard = true
	}

	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions}, ","),
		AllowHeaders:     strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization, RequestIDHeader}, ","),
		ExposeHeaders:    strings.Join([]string{RequestIDHeader, ProcessTimeHeader}, ","),
		AllowCredentials: !wildcard,
	})
}
