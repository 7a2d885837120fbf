package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/pdfs/years":
			_, _ = io.WriteString(w, `{"years":["Year 7","Year 8"]}`)
		case "/pdfs/year/Year%207":
			_, _ = io.WriteString(w, `{"pdfs":[
				{"id":"a","title":"Algebra","subject":"Maths","year_level":"Year 7","file_url":"/pdfs/algebra.pdf"},
				{"id":"b","title":"Cells","subject":"Science","year_level":"Year 7","file_url":"https://cdn.example.com/cells.pdf"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Not Found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srvURL, stateDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", srvURL, "--state-dir", stateDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestYearsCommand(t *testing.T) {
	srv := catalogServer(t)
	out, err := run(t, srv.URL, t.TempDir(), "years")
	require.NoError(t, err)
	assert.Equal(t, "Year 7\nYear 8\n", out)
}

func TestListCommand_Search(t *testing.T) {
	srv := catalogServer(t)
	out, err := run(t, srv.URL, t.TempDir(), "list", "Year 7", "--search", "CELL")
	require.NoError(t, err)
	assert.Equal(t, "b\tScience\tCells\n", out)
}

func TestOpenThenRecent(t *testing.T) {
	srv := catalogServer(t)
	state := t.TempDir()

	out, err := run(t, srv.URL, state, "open", "Year 7", "b")
	require.NoError(t, err)
	assert.Equal(t, "https://mozilla.github.io/pdf.js/web/viewer.html?file=https%3A%2F%2Fcdn.example.com%2Fcells.pdf\n", out)

	out, err = run(t, srv.URL, state, "recent")
	require.NoError(t, err)
	assert.Contains(t, out, "Cells (Science, Year 7)")
}

func TestOpenCommand_UnknownID(t *testing.T) {
	srv := catalogServer(t)
	_, err := run(t, srv.URL, t.TempDir(), "open", "Year 7", "zzz")
	assert.ErrorContains(t, err, `no PDF "zzz"`)
}

func TestRecentCommand_Empty(t *testing.T) {
	out, err := run(t, "http://localhost:1", t.TempDir(), "recent")
	require.NoError(t, err)
	assert.Equal(t, "No recently viewed PDFs.\n", out)
}

func TestServerFromEnv(t *testing.T) {
	srv := catalogServer(t)
	t.Setenv("PDFCLI_SERVER", srv.URL)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--state-dir", t.TempDir(), "years"})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "Year 7"))
}
