package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"starterapi/docs"
	"starterapi/internal/service"
)

// Deps carries what the routes need. Checks is consulted by /health.
type Deps struct {
	Info   AppInfo
	Items  service.ItemService
	Checks map[string]ReadinessCheck
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers thin; business rules belong in the service layer.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Root(d.Info))
	app.Get("/health", HealthCheck(d.Info, d.Checks))
	app.Get("/healthz", LivenessProbe())

	// Swagger UI at /docs/index.html, OpenAPI document at /docs/doc.json, which ReDoc also reads
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Redirect("/docs/index.html", fiber.StatusMovedPermanently)
	})
	app.Get("/docs/doc.json", OpenAPIDoc(d.Info))
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/redoc", Redoc())

	app.Get("/items", ListItems(d.Items))
	app.Post("/items", CreateItem(d.Items))
	app.Get("/items/:id", GetItem(d.Items))
	app.Put("/items/:id", UpdateItem(d.Items))
	app.Delete("/items/:id", DeleteItem(d.Items))
}

// OpenAPIDoc serves the generated OpenAPI document with the caller's host and scheme.
// Each request renders its own copy of docs.SwaggerInfo, the registered instance is never written.
func OpenAPIDoc(info AppInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get(fiber.HeaderXForwardedProto); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		spec := *docs.SwaggerInfo
		spec.Title = info.Name
		spec.Version = info.Version
		spec.Host = c.Get(fiber.HeaderHost)
		spec.Schemes = []string{scheme}

		return c.Type("json").SendString(spec.ReadDoc())
	}
}
