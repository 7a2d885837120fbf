package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfcatalog/internal/service"
)

// ListYears godoc
// @Summary List year levels
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} errorPayload
// @Router /pdfs/years [get]
func ListYears(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		years, err := svc.Years(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return c.JSON(fiber.Map{"years": years})
	}
}

// ListByYear godoc
// @Summary List the PDFs of a year level
// @Param year path string true "URL-encoded year level"
// @Produce json
// @Success 200 {object} map[string][]model.Document
// @Failure 500 {object} errorPayload
// @Router /pdfs/year/{year} [get]
func ListByYear(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, err := url.PathUnescape(c.Params("year"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year encoding")
		}

		docs, err := svc.ByYear(c.UserContext(), year)
		if err != nil {
			if errors.Is(err, service.ErrYearRequired) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return c.JSON(fiber.Map{"pdfs": docs})
	}
}

// HealthCheck pings the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the Prometheus registry in text format.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
