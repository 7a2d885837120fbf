package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"pdfcatalog/internal/formdata"
	"pdfcatalog/internal/service"
)

const missingFieldsMessage = "Missing required fields"

// UploadRemote godoc
// @Summary Upload a PDF (remote commit)
// @Accept multipart/form-data
// @Param title formData string true "Title"
// @Param subject formData string true "Subject"
// @Param year formData string true "Year level"
// @Param file formData file true "PDF file"
// @Produce json
// @Success 200 {object} service.UploadResult
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /upload [post]
//
// Form parsing is left to fiber; the file is read fully before publishing.
func UploadRemote(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := service.UploadRequest{
			Title:   c.FormValue("title"),
			Subject: c.FormValue("subject"),
			Year:    c.FormValue("year"),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			data, err := io.ReadAll(f)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}
			req.FileName = fh.Filename
			req.ContentType = fh.Header.Get("Content-Type")
			req.Data = data
		}

		return upload(c, svc, req)
	}
}

// UploadLocal decodes the raw body with the in-house multipart decoder.
func UploadLocal(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		boundary, err := formdata.BoundaryFromContentType(c.Get(fiber.HeaderContentType))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT_TYPE", "multipart/form-data body required")
		}

		form := formdata.Decode(c.Body(), boundary)
		req := service.UploadRequest{
			Title:       form.Value("title"),
			Subject:     form.Value("subject"),
			Year:        form.Value("year"),
			FileName:    form.FileName,
			ContentType: "application/pdf",
			Data:        form.File,
		}

		return upload(c, svc, req)
	}
}

func upload(c *fiber.Ctx, svc service.UploadService, req service.UploadRequest) error {
	res, err := svc.Upload(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", missingFieldsMessage)
		}
		return writeError(c, fiber.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
