package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"pdfcatalog/internal/http/middleware"
	"pdfcatalog/internal/service"
)

// RegisterRoutes attaches the catalog API: read endpoints, the remote-commit
// upload, health probes and metrics.
func RegisterRoutes(app *fiber.App, db *sql.DB, catalog service.CatalogService, uploads service.UploadService, gatherer prometheus.Gatherer) {
	app.Use(middleware.CORS(fiber.MethodGet, fiber.MethodPost), middleware.Preflight())

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if gatherer != nil {
		app.Get("/metrics", Metrics(gatherer))
	}

	app.Get("/pdfs/years", ListYears(catalog))
	app.Get("/pdfs/year/:year", ListByYear(catalog))
	app.Post("/upload", UploadRemote(uploads))
}

// RegisterUploadRoutes attaches the local upload helper: the raw-body upload
// endpoint and static serving of the saved files.
func RegisterUploadRoutes(app *fiber.App, uploads service.UploadService, dir string) {
	app.Use(middleware.CORS(fiber.MethodPost), middleware.Preflight())

	app.Post("/upload", UploadLocal(uploads))
	app.Static(service.LocalFileRoute, dir, fiber.Static{ByteRange: true})
}
