package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AppInfo is the metadata returned by the root route.
type AppInfo struct {
	Name    string
	Version string
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

const readinessTimeout = 2 * time.Second

// Root greets the caller and points at the docs and the registered resources.
func Root(info AppInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": info.Name + " is running",
			"version": info.Version,
			"docs":    "/docs",
			"endpoints": fiber.Map{
				"health": "/health",
				"items":  "/items",
			},
		})
	}
}

// HealthCheck runs every readiness check with a short timeout.
// Any failure turns the response into 503 and names the failing checks.
func HealthCheck(info AppInfo, checks map[string]ReadinessCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = "unavailable"
			}
		}
		if len(failed) > 0 {
			return writeErrorFields(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable", failed)
		}

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"message": "ready",
			"version": info.Version,
			"checks":  names,
		})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
