// Package server assembles the Fiber application: global middleware, error handler, metrics
// endpoint and routes. The entry point and the tests share this wiring.
package server

import (
	"fmt"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"starterapi/internal/config"
	"starterapi/internal/http/handler"
	"starterapi/internal/http/middleware"
	"starterapi/internal/service"
)

// Options are the collaborators New needs besides configuration.
// A nil Registry gets a fresh one with Go and process collectors.
type Options struct {
	Logger   zerolog.Logger
	Items    service.ItemService
	Checks   map[string]handler.ReadinessCheck
	Registry *prometheus.Registry
}

// New builds the application. It does not start listening.
func New(cfg *config.AppConfig, opts Options) (*fiber.App, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          handler.ErrorHandler(opts.Logger),
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: !cfg.Debug,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Debug}))
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.Logger(opts.Logger))
	app.Use(prom.Handler())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler.RegisterRoutes(app, handler.Deps{
		Info:   handler.AppInfo{Name: cfg.AppName, Version: cfg.Version},
		Items:  opts.Items,
		Checks: opts.Checks,
	})

	return app, nil
}
