// Package client talks to the catalog API the way the web front-end does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdfcatalog/internal/model"
	"pdfcatalog/internal/service"
)

const viewerBase = "https://mozilla.github.io/pdf.js/web/viewer.html?file="

var (
	ErrMissingFields = errors.New("please fill in all fields")
	ErrNotPDF        = errors.New("please select a PDF file")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d: %s", e.Status, e.Message)
}

// Client calls one catalog server.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New parses baseURL. A nil httpClient gets an otelhttp-instrumented default.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Years lists the distinct year levels.
func (c *Client) Years(ctx context.Context) ([]string, error) {
	var out struct {
		Years []string `json:"years"`
	}
	if err := c.getJSON(ctx, "/pdfs/years", &out); err != nil {
		return nil, err
	}
	if out.Years == nil {
		out.Years = []string{}
	}
	return out.Years, nil
}

// ByYear lists the documents of one year level.
func (c *Client) ByYear(ctx context.Context, year string) ([]model.Document, error) {
	var out struct {
		PDFs []model.Document `json:"pdfs"`
	}
	if err := c.getJSON(ctx, "/pdfs/year/"+url.PathEscape(year), &out); err != nil {
		return nil, err
	}
	if out.PDFs == nil {
		out.PDFs = []model.Document{}
	}
	return out.PDFs, nil
}

// UploadInput is one PDF to send to /upload.
type UploadInput struct {
	Title    string
	Subject  string
	Year     string
	FileName string
	Data     []byte
}

// Upload posts in as multipart/form-data. Blank fields and non-PDF content
// are rejected before any request is made.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*service.UploadResult, error) {
	if in.Title == "" || in.Subject == "" || in.Year == "" || len(in.Data) == 0 {
		return nil, ErrMissingFields
	}
	if http.DetectContentType(in.Data) != "application/pdf" {
		return nil, ErrNotPDF
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range [][2]string{{"title", in.Title}, {"subject", in.Subject}, {"year", in.Year}} {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, in.FileName))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload"), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out service.UploadResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ViewerURL returns the pdf.js viewer link for a document. Relative file
// URLs, as returned by the local upload helper, are resolved against the server.
func (c *Client) ViewerURL(doc model.Document) string {
	file := doc.FileURL
	if ref, err := url.Parse(file); err == nil && !ref.IsAbs() {
		file = c.baseURL.ResolveReference(ref).String()
	}
	return ViewerURL(file)
}

// ViewerURL builds the pdf.js viewer link for fileURL.
func ViewerURL(fileURL string) string {
	return viewerBase + encodeURIComponent(fileURL)
}

// FilterByTitle keeps the documents whose title contains query, ignoring case.
func FilterByTitle(docs []model.Document, query string) []model.Document {
	q := strings.ToLower(query)
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Title), q) {
			out = append(out, d)
		}
	}
	return out
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c *Client) endpoint(p string) string {
	return c.baseURL.String() + p
}

func (c *Client) getJSON(ctx context.Context, p string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil && json.Unmarshal(b, &body) == nil {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
