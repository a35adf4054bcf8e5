package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/internal/render"
	"github.com/amaumene/episodebot/internal/servicemap"
	"github.com/amaumene/episodebot/pkg/logger"
)

const (
	testTMDBToken   = "eyJhbGciOiJIUzI1NiJ9.test.token"
	testGitHubToken = "ghp_testtoken123456"
	testListID      = "77"
)

func quietLogger() logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}

func testConfig(t *testing.T, tmdbURL, dispatchURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.TMDBAccessToken = testTMDBToken
	cfg.GitHubToken = testGitHubToken
	cfg.ListID = testListID
	cfg.TMDBBaseURL = tmdbURL
	cfg.DispatchURL = dispatchURL
	cfg.Timezone = "UTC"
	cfg.HTTPTimeout = config.Duration(5 * time.Second)
	require.NoError(t, cfg.Validate())
	return cfg
}

func testRenderer() *render.Renderer {
	return render.New("https://image.tmdb.org/t/p", servicemap.Default(), time.UTC, quietLogger())
}

type cannedResponse struct {
	status int
	body   string
}

// fakeTMDB serves canned bodies keyed by request path and records requests.
type fakeTMDB struct {
	*httptest.Server
	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []*http.Request
}

func newFakeTMDB(t *testing.T, responses map[string]cannedResponse) *fakeTMDB {
	f := &fakeTMDB{responses: responses}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		resp, ok := f.responses[r.URL.Path]
		f.mu.Unlock()

		if !ok {
			http.Error(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		io.WriteString(w, resp.body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeTMDB) recorded() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

func (f *fakeTMDB) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.URL.Path)
	}
	return out
}

// fakeGitHub accepts dispatch calls and keeps the decoded payloads.
type fakeGitHub struct {
	*httptest.Server
	mu       sync.Mutex
	status   int
	payloads []models.DispatchRequest
	headers  []http.Header
}

func newFakeGitHub(t *testing.T, status int) *fakeGitHub {
	f := &fakeGitHub{status: status}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.DispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.payloads = append(f.payloads, req)
		f.headers = append(f.headers, r.Header.Clone())
		f.mu.Unlock()
		w.WriteHeader(f.status)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGitHub) recorded() ([]models.DispatchRequest, []http.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DispatchRequest(nil), f.payloads...), append([]http.Header(nil), f.headers...)
}

func (f *fakeGitHub) pages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.payloads))
	for _, p := range f.payloads {
		out = append(out, p.ClientPayload.NewEpisodePage)
	}
	return out
}
