package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProcessTimeHeader carries the handler latency in seconds.
const ProcessTimeHeader = "X-Process-Time"

// Logger is a middleware that logs each HTTP request as one structured line.
// Fields: request_id, method, path, status, latency (ms, float), ip.
// Server errors are logged at error level, client errors at warn.
func Logger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		if err != nil {
			status = statusFromError(err)
		}

		c.Set(ProcessTimeHeader, strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64))

		ev := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = logger.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = logger.Warn()
		}

		ev.Str("request_id", RequestIDFromCtx(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(elapsed.Microseconds())/1000).
			Str("ip", c.IP()).
			Msg("request")

		return err
	}
}

// statusFromError mirrors what the global error handler will write for err.
func statusFromError(err error) int {
	if fiberErr, ok := err.(*fiber.Error); ok {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
