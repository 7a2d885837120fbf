package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pdfcatalog/docs"
	"pdfcatalog/internal/config"
	"pdfcatalog/internal/database"
	"pdfcatalog/internal/database/migration"
	handlers "pdfcatalog/internal/http/handler"
	"pdfcatalog/internal/http/middleware"
	"pdfcatalog/internal/logging"
	"pdfcatalog/internal/otel"
	"pdfcatalog/internal/repository/postgres"
	"pdfcatalog/internal/service"
)

// @title PDF Catalog API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location()).With("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "pdfcatalog", logger)
	if err != nil {
		fatal(logger, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(logger, "database_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		fatal(logger, "migration_failed", err)
	}

	pub, err := newPublisher(ctx, cfg)
	if err != nil {
		fatal(logger, "publisher_init_failed", err)
	}
	logger.Info("publisher_configured", map[string]any{"backend": cfg.Upload.Backend})

	// Repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	catalogSvc := service.NewCatalogService(docRepo)
	uploadSvc := service.NewRemoteUploadService(pub, docRepo, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		fatal(logger, "metrics_init_failed", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.BodyLimitBytes(),
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	app.Use(middleware.Logger(cfg.Location()))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, db, catalogSvc, uploadSvc, registry)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.ShutdownWithContext(sctx)
	}()

	addr := ":" + cfg.Port
	logger.Info("server_starting", map[string]any{"addr": addr})
	if err := app.Listen(addr); err != nil {
		fatal(logger, "server_failed", err)
	}
}

func fatal(logger *logging.Logger, event string, err error) {
	logger.Error(event, err, nil)
	os.Exit(1)
}
