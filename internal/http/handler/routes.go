package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"signapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// validate and coerce payloads at this boundary; business rules live in the
// services. Everything except health, docs and metrics sits behind auth.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	docSvc service.DocumentService,
	plSvc service.PlacementService,
	actSvc service.ActivityService,
	auth fiber.Handler,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	documents := app.Group("/documents", auth)
	documents.Post("/", UploadDocument(docSvc))
	documents.Get("/", ListDocuments(docSvc))
	documents.Get("/:id", GetDocument(docSvc))
	documents.Delete("/:id", DeleteDocument(docSvc))

	signatures := app.Group("/signatures", auth)
	signatures.Post("/", SubmitPlacement(plSvc))
	signatures.Post("/upload", UploadSignatureImage(plSvc))
	signatures.Get("/file/:fileId", ListPlacements(plSvc))
	signatures.Get("/audit/:fileId", AuditTrail(plSvc))
	signatures.Patch("/status/:id", UpdatePlacementStatus(plSvc))
	signatures.Get("/generate/:fileId", GenerateSigned(plSvc))

	app.Get("/activities", auth, ListActivities(actSvc))
}
