package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/constants"
	apperrors "github.com/amaumene/episodebot/internal/errors"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/internal/render"
	"github.com/amaumene/episodebot/internal/servicemap"
	"github.com/amaumene/episodebot/internal/services"
	"github.com/amaumene/episodebot/pkg/logger"
)

const downPage = "<html><body>catalog down</body></html>"

// downCatalog fails every request the way the catalog client does when the
// upstream is unreachable.
type downCatalog struct{}

func (downCatalog) Fetch(_ context.Context, _, description string, _ bool) services.CatalogResult {
	return services.CatalogResult{
		ErrorPage: downPage,
		Err:       apperrors.NewUpstreamError(description, nil),
	}
}

type recordingPublisher struct {
	mu    sync.Mutex
	pages []string
}

func (p *recordingPublisher) Publish(_ context.Context, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = append(p.pages, content)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

type pipelineTrigger struct {
	pipeline *services.EpisodePipeline
	next     time.Time
}

func (t pipelineTrigger) Trigger(ctx context.Context) models.RunReport {
	return t.pipeline.Run(ctx, time.Now())
}

func (t pipelineTrigger) Next() time.Time { return t.next }

type testEnv struct {
	router    *gin.Engine
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, triggerToken string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.TMDBAccessToken = "eyJhbGciOiJIUzI1NiJ9.test.token"
	cfg.GitHubToken = "ghp_testtoken123456"
	cfg.ListID = "77"
	cfg.Timezone = "UTC"
	cfg.TriggerToken = triggerToken
	require.NoError(t, cfg.Validate())

	log := logger.NewWithWriter(io.Discard, "error")
	renderer := render.New(cfg.TMDBImageBaseURL, servicemap.Default(), cfg.Location(), log)
	publisher := &recordingPublisher{}

	container := &services.Container{
		Catalog:   downCatalog{},
		Publisher: publisher,
		Renderer:  renderer,
		Logger:    log,
	}
	container.Pipeline = services.NewEpisodePipeline(cfg, container.Catalog, publisher, renderer, log)
	container.Preview = services.NewEpisodePipeline(cfg, container.Catalog, services.NopPublisher{}, renderer, log)

	trigger := pipelineTrigger{
		pipeline: container.Pipeline,
		next:     time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC),
	}

	r := gin.New()
	New(container, trigger, cfg).RegisterRoutes(r)
	return &testEnv{router: r, publisher: publisher}
}

func (e *testEnv) do(method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-05-02T06:00:00Z", body["next_run"])
}

func TestHome(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), constants.AppName)
}

func TestStatus_BeforeAndAfterRun(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/run", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report models.RunReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, models.OutcomePublishedError, report.Outcome)
	assert.Equal(t, services.StageList, report.FailedStage)
	assert.Equal(t, apperrors.ErrorTypeUpstreamHTTP, report.ErrorType)
}

func TestRun_PublishesAndAcknowledges(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodPost, "/run", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Run-ID"))

	var body struct {
		Message string           `json:"message"`
		Report  models.RunReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, constants.RunAcknowledgment, body.Message)
	assert.Equal(t, w.Header().Get("X-Run-ID"), body.Report.RunID)
	assert.Equal(t, 1, env.publisher.count())
}

func TestPreview_DoesNotPublish(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/preview", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, models.OutcomePublishedError, w.Header().Get("X-Run-Outcome"))
	assert.Equal(t, downPage, w.Body.String())
	assert.Zero(t, env.publisher.count())

	// Preview runs do not replace the last published report.
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/status", "").Code)
}

func TestManualRoutes_RequireToken(t *testing.T) {
	const token = "manual-trigger-secret"
	env := newTestEnv(t, token)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/run", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/preview", "wrong-token").Code)
	assert.Zero(t, env.publisher.count())

	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/run", token).Code)
	assert.Equal(t, 1, env.publisher.count())

	// Read-only routes stay open.
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health", "").Code)
}

// contextTrigger records the context a manual run receives.
type contextTrigger struct {
	ctx context.Context
	err error
}

func (t *contextTrigger) Trigger(ctx context.Context) models.RunReport {
	t.ctx = ctx
	t.err = ctx.Err()
	return models.RunReport{RunID: "manual", Message: constants.RunAcknowledgment}
}

func (t *contextTrigger) Next() time.Time { return time.Time{} }

func TestRun_SurvivesClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	trigger := &contextTrigger{}

	r := gin.New()
	New(&services.Container{}, trigger, cfg).RegisterRoutes(r)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/run", nil).WithContext(reqCtx))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, trigger.ctx)
	assert.Equal(t, "manual", w.Header().Get("X-Run-ID"))
	assert.NoError(t, trigger.err, "a disconnected client must not cancel the run")

	deadline, ok := trigger.ctx.Deadline()
	assert.True(t, ok, "manual runs are bounded")
	assert.WithinDuration(t, time.Now().Add(constants.RunTimeout), deadline, time.Minute)
}
