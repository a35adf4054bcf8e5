package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/constants"
	apperrors "github.com/amaumene/episodebot/internal/errors"
	"github.com/amaumene/episodebot/pkg/httputil"
	"github.com/amaumene/episodebot/pkg/logger"
)

// CatalogResult is the outcome of one catalog request. Exactly one of Body
// and ErrorPage is set. Err explains a failure for logs and run reports.
type CatalogResult struct {
	Body      json.RawMessage
	ErrorPage string
	Err       *apperrors.PipelineError
}

// OK reports whether the request succeeded and Body holds the payload.
func (r CatalogResult) OK() bool {
	return r.ErrorPage == ""
}

// Has reports whether the top-level object carries field with a usable
// value. null and "" count as absent.
func (r CatalogResult) Has(field string) bool {
	if !r.OK() {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &fields); err != nil {
		return false
	}
	raw, ok := fields[field]
	if !ok {
		return false
	}
	v := string(bytes.TrimSpace(raw))
	return v != "null" && v != `""`
}

// Decode unmarshals the payload into v.
func (r CatalogResult) Decode(v interface{}) error {
	if !r.OK() {
		return fmt.Errorf("decode failed result: %w", r.Err)
	}
	return json.Unmarshal(r.Body, v)
}

// ErrorPageRenderer renders the page published for a failed request.
type ErrorPageRenderer interface {
	RenderErrorPage(description string) string
}

// TMDB is the catalog client. Every request carries the bearer token and
// the configured response language.
type TMDB struct {
	baseURL    string
	language   string
	httpClient *http.Client
	pages      ErrorPageRenderer
	logger     logger.Logger
}

// NewTMDB creates a catalog client from the application config.
func NewTMDB(cfg *config.Config, pages ErrorPageRenderer, log logger.Logger) *TMDB {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json;charset=utf-8")
	headers.Set("Authorization", "Bearer "+cfg.TMDBAccessToken)

	return &TMDB{
		baseURL:    cfg.TMDBBaseURL,
		language:   cfg.Language,
		httpClient: httputil.NewClientWithHeaders(cfg.Timeout(), headers),
		pages:      pages,
		logger:     log,
	}
}

// Fetch issues one GET for endpoint (e.g. "3/tv/1418"). description ends up
// on the error page when anything goes wrong; arrayExpected states whether
// the payload must be a JSON array or a JSON object.
func (t *TMDB) Fetch(ctx context.Context, endpoint, description string, arrayExpected bool) CatalogResult {
	apiURL := fmt.Sprintf("%s/%s?language=%s", t.baseURL, strings.TrimLeft(endpoint, "/"), url.QueryEscape(t.language))
	t.logger.Debugf("[TMDB] GET %s", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return t.failure(apperrors.NewUpstreamError(description, err))
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Errorf("[TMDB] request to %s failed: %v", endpoint, err)
		return t.failure(apperrors.NewUpstreamError(description, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.Errorf("[TMDB] failed to read response from %s: %v", endpoint, err)
		return t.failure(apperrors.NewUpstreamError(description, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Errorf("[TMDB] %s returned status %d: %s", endpoint, resp.StatusCode, truncate(body))
		return t.failure(apperrors.NewUpstreamError(description, fmt.Errorf("status %d", resp.StatusCode)))
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		t.logger.Errorf("[TMDB] %s returned invalid JSON: %s", endpoint, truncate(body))
		return t.failure(apperrors.NewShapeMismatchError(description + " Returned body is not valid JSON."))
	}

	isArray := body[0] == '['
	if !isArray && arrayExpected {
		return t.failure(apperrors.NewShapeMismatchError(description + " Returned object is not an array."))
	}
	if isArray && !arrayExpected {
		return t.failure(apperrors.NewShapeMismatchError(description + " Returned object is an array (shouldn't be)."))
	}

	t.logger.Debugf("[TMDB] successful fetch of %s (%d bytes)", endpoint, len(body))
	return CatalogResult{Body: json.RawMessage(body)}
}

func (t *TMDB) failure(err *apperrors.PipelineError) CatalogResult {
	return CatalogResult{
		ErrorPage: t.pages.RenderErrorPage(err.Message),
		Err:       err,
	}
}

func truncate(body []byte) string {
	if len(body) > constants.MaxLoggedBodyBytes {
		return string(body[:constants.MaxLoggedBodyBytes]) + "..."
	}
	return string(body)
}
