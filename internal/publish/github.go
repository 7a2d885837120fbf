package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdfcatalog/internal/config"
)

const rawContentBase = "https://raw.githubusercontent.com"

// GitHubPublisher commits files to a repository through the contents API.
type GitHubPublisher struct {
	client  *github.Client
	cfg     config.GitHubConfig
	baseURL string
}

// NewGitHubPublisher validates cfg and builds an authenticated client.
// A nil httpClient gets an otelhttp-instrumented default.
func NewGitHubPublisher(cfg config.GitHubConfig, publicBaseURL string, httpClient *http.Client) (*GitHubPublisher, error) {
	if cfg.Token == "" {
		return nil, errors.New("github token is required")
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("github owner and repo are required")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	client := github.NewClient(httpClient).WithAuthToken(cfg.Token)
	if cfg.APIURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		client.BaseURL = u
	}

	base := publicBaseURL
	if base == "" {
		base = fmt.Sprintf("%s/%s/%s/%s", rawContentBase, cfg.Owner, cfg.Repo, cfg.Branch)
	}

	return &GitHubPublisher{client: client, cfg: cfg, baseURL: base}, nil
}

// Publish creates <prefix>/<file name> in the configured branch. The content
// is sent base64-encoded, as the contents API requires.
func (p *GitHubPublisher) Publish(ctx context.Context, obj Object) (Published, error) {
	filePath := objectPath(p.cfg.PathPrefix, obj.FileName)
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Add PDF: " + obj.Title),
		Content: obj.Data,
		Branch:  github.String(p.cfg.Branch),
	}

	_, _, err := p.client.Repositories.CreateFile(ctx, p.cfg.Owner, p.cfg.Repo, filePath, opts)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			return Published{}, fmt.Errorf("github commit %s: status %d: %s", filePath, ghErr.Response.StatusCode, ghErr.Message)
		}
		return Published{}, fmt.Errorf("github commit %s: %w", filePath, err)
	}

	return Published{Path: filePath, URL: joinURL(p.baseURL, filePath)}, nil
}
