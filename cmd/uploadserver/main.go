// Command uploadserver is the local upload helper: it saves uploaded PDFs
// under UPLOAD_DIR, records them in the catalog and serves them back at /pdfs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"

	"pdfcatalog/internal/config"
	"pdfcatalog/internal/database"
	"pdfcatalog/internal/database/migration"
	handlers "pdfcatalog/internal/http/handler"
	"pdfcatalog/internal/http/middleware"
	"pdfcatalog/internal/logging"
	"pdfcatalog/internal/repository/postgres"
	"pdfcatalog/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location()).With("uploadserver")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Error("database_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Error("migration_failed", err, nil)
		os.Exit(1)
	}

	uploadSvc := service.NewLocalUploadService(cfg.Upload.Dir, postgres.NewDocumentPostgres(db), logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.BodyLimitBytes(),
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(cfg.Location()))

	handlers.RegisterUploadRoutes(app, uploadSvc, cfg.Upload.Dir)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.ShutdownWithContext(sctx)
	}()

	addr := ":" + cfg.UploadPort
	logger.Info("server_starting", map[string]any{"addr": addr, "dir": cfg.Upload.Dir})
	if err := app.Listen(addr); err != nil {
		logger.Error("server_failed", err, nil)
		os.Exit(1)
	}
}
