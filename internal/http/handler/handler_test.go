package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfcatalog/internal/http/middleware"
	"pdfcatalog/internal/model"
	"pdfcatalog/internal/service"
	serviceMocks "pdfcatalog/internal/service/mocks"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newApp()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newApp()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListYears(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(serviceMocks.MockCatalogService)
		svc.On("Years", mock.Anything).Return([]string{"Year 7", "Year 8"}, nil)

		app := newApp()
		app.Get("/pdfs/years", ListYears(svc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/years", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, []string{"Year 7", "Year 8"}, body["years"])
		svc.AssertExpectations(t)
	})

	t.Run("service error passes message through", func(t *testing.T) {
		svc := new(serviceMocks.MockCatalogService)
		svc.On("Years", mock.Anything).Return(nil, errors.New("connection refused"))

		app := newApp()
		app.Get("/pdfs/years", ListYears(svc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/years", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "connection refused", decodeError(t, resp).Error)
	})
}

func TestListByYear(t *testing.T) {
	t.Run("decodes the path segment", func(t *testing.T) {
		docs := []model.Document{{ID: "a", Title: "Algebra", Subject: "Maths", YearLevel: "Year 7", FileURL: "/pdfs/a.pdf"}}
		svc := new(serviceMocks.MockCatalogService)
		svc.On("ByYear", mock.Anything, "Year 7").Return(docs, nil)

		app := newApp()
		app.Get("/pdfs/year/:year", ListByYear(svc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/year/Year%207", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string][]model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, docs, body["pdfs"])
		svc.AssertExpectations(t)
	})

	t.Run("unknown year yields empty list", func(t *testing.T) {
		svc := new(serviceMocks.MockCatalogService)
		svc.On("ByYear", mock.Anything, "Year 99").Return([]model.Document{}, nil)

		app := newApp()
		app.Get("/pdfs/year/:year", ListByYear(svc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/year/Year%2099", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw := new(bytes.Buffer)
		_, _ = raw.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"pdfs":[]}`, raw.String())
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(serviceMocks.MockCatalogService)
		svc.On("ByYear", mock.Anything, "Year 7").Return(nil, errors.New("boom"))

		app := newApp()
		app.Get("/pdfs/year/:year", ListByYear(svc))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/year/Year%207", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "boom", decodeError(t, resp).Error)
	})
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func uploadFields() map[string]string {
	return map[string]string{"title": "Algebra", "subject": "Maths", "year": "Year 7"}
}

func TestUploadRemote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(serviceMocks.MockUploadService)
		svc.On("Upload", mock.Anything, mock.MatchedBy(func(r service.UploadRequest) bool {
			return r.Title == "Algebra" && r.Subject == "Maths" && r.Year == "Year 7" &&
				r.FileName == "algebra.pdf" && string(r.Data) == "%PDF-1.4"
		})).Return(&service.UploadResult{
			Success: true, Message: "PDF uploaded successfully", ID: "id-1",
			Title: "Algebra", Subject: "Maths", Year: "Year 7", FileURL: "https://cdn/pdfs/algebra.pdf",
		}, nil)

		app := newApp()
		app.Post("/upload", UploadRemote(svc))

		body, ct := multipartBody(t, uploadFields(), "algebra.pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, true, got["success"])
		assert.Equal(t, "https://cdn/pdfs/algebra.pdf", got["fileUrl"])
		svc.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := new(serviceMocks.MockUploadService)
		svc.On("Upload", mock.Anything, mock.Anything).Return(nil, service.ErrMissingFields)

		app := newApp()
		app.Post("/upload", UploadRemote(svc))

		body, ct := multipartBody(t, map[string]string{"title": "Algebra"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Missing required fields", decodeError(t, resp).Error)
	})

	t.Run("publish failure", func(t *testing.T) {
		svc := new(serviceMocks.MockUploadService)
		svc.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("publish error: status 500"))

		app := newApp()
		app.Post("/upload", UploadRemote(svc))

		body, ct := multipartBody(t, uploadFields(), "a.pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "publish error: status 500", decodeError(t, resp).Error)
	})
}

func TestUploadLocal(t *testing.T) {
	t.Run("decodes raw body", func(t *testing.T) {
		svc := new(serviceMocks.MockUploadService)
		svc.On("Upload", mock.Anything, mock.MatchedBy(func(r service.UploadRequest) bool {
			return r.Title == "Algebra" && r.FileName == "algebra.pdf" && string(r.Data) == "%PDF-1.4"
		})).Return(&service.UploadResult{Success: true, ID: "id-1", FileURL: "/pdfs/algebra.pdf"}, nil)

		app := newApp()
		app.Post("/upload", UploadLocal(svc))

		body, ct := multipartBody(t, uploadFields(), "algebra.pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("non multipart body", func(t *testing.T) {
		svc := new(serviceMocks.MockUploadService)

		app := newApp()
		app.Post("/upload", UploadLocal(svc))

		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})
}

func TestRegisterRoutes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	catalog := new(serviceMocks.MockCatalogService)
	catalog.On("Years", mock.Anything).Return([]string{}, nil)

	app := newApp()
	RegisterRoutes(app, db, catalog, new(serviceMocks.MockUploadService), prometheus.NewRegistry())

	t.Run("years wired", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pdfs/years", nil)
		req.Header.Set("Origin", "http://example.com")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("any OPTIONS is answered", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/anything", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRegisterUploadRoutes_ServesSavedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF"), 0o644))

	app := newApp()
	RegisterUploadRoutes(app, new(serviceMocks.MockUploadService), dir)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pdfs/a.pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsSurviveUnknownPaths(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := newApp()
	app.Use(metrics.Handler())
	RegisterRoutes(app, db, new(serviceMocks.MockCatalogService), new(serviceMocks.MockUploadService), reg)

	for _, p := range []string{"/favicon.ico", "/robots.txt1", "/wp-login.php"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, p, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `path="unmatched"`)
	assert.NotContains(t, string(body), "favicon")
}
