package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcatalog/internal/config"
)

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

func newTestGitHub(t *testing.T, handler http.HandlerFunc, publicBaseURL string) *GitHubPublisher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewGitHubPublisher(config.GitHubConfig{
		Token:      "ghp_test",
		Owner:      "school",
		Repo:       "library",
		Branch:     "main",
		PathPrefix: "pdfs",
		APIURL:     srv.URL,
	}, publicBaseURL, srv.Client())
	require.NoError(t, err)
	return p
}

func TestGitHubPublisher_Publish(t *testing.T) {
	data := []byte("%PDF-1.4 algebra")
	var got contentsRequest

	p := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/school/library/contents/pdfs/alg.pdf", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"path":"pdfs/alg.pdf"},"commit":{"sha":"abc"}}`))
	}, "")

	res, err := p.Publish(context.Background(), Object{FileName: "alg.pdf", Title: "Algebra Basics", Data: data})

	require.NoError(t, err)
	assert.Equal(t, "pdfs/alg.pdf", res.Path)
	assert.Equal(t, "https://raw.githubusercontent.com/school/library/main/pdfs/alg.pdf", res.URL)
	assert.Equal(t, "Add PDF: Algebra Basics", got.Message)
	assert.Equal(t, "main", got.Branch)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), got.Content)
}

func TestGitHubPublisher_PublicBaseURL(t *testing.T) {
	p := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}, "https://cdn.example.com/library/")

	res, err := p.Publish(context.Background(), Object{FileName: "../Year 7 notes.pdf", Title: "Notes"})

	require.NoError(t, err)
	assert.Equal(t, "pdfs/Year 7 notes.pdf", res.Path)
	assert.Equal(t, "https://cdn.example.com/library/pdfs/Year%207%20notes.pdf", res.URL)
}

func TestGitHubPublisher_FailureStatus(t *testing.T) {
	p := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`))
	}, "")

	res, err := p.Publish(context.Background(), Object{FileName: "alg.pdf", Title: "Algebra"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "github commit pdfs/alg.pdf: status 422")
	assert.Empty(t, res.URL)
}

func TestNewGitHubPublisher_Validation(t *testing.T) {
	_, err := NewGitHubPublisher(config.GitHubConfig{Owner: "o", Repo: "r"}, "", nil)
	assert.EqualError(t, err, "github token is required")

	_, err = NewGitHubPublisher(config.GitHubConfig{Token: "t", Owner: "o"}, "", nil)
	assert.EqualError(t, err, "github owner and repo are required")

	p, err := NewGitHubPublisher(config.GitHubConfig{Token: "t", Owner: "o", Repo: "r"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "main", p.cfg.Branch)
}
