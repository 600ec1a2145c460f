package handler

import "github.com/gofiber/fiber/v2"

const redocHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Reference</title>
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <redoc spec-url="/docs/doc.json"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`

// Redoc serves a ReDoc page for the same OpenAPI document as the Swagger UI.
func Redoc() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(redocHTML)
	}
}
