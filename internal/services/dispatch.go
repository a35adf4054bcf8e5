package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/constants"
	apperrors "github.com/amaumene/episodebot/internal/errors"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/pkg/httputil"
	"github.com/amaumene/episodebot/pkg/logger"
)

// Dispatcher publishes rendered pages through a GitHub repository_dispatch
// webhook, which rebuilds the static site.
type Dispatcher struct {
	url        string
	httpClient *http.Client
	logger     logger.Logger
}

// NewDispatcher creates a publisher from the application config.
func NewDispatcher(cfg *config.Config, log logger.Logger) *Dispatcher {
	headers := http.Header{}
	headers.Set("Accept", constants.DispatchAcceptHeader)
	headers.Set("User-Agent", constants.UserAgent)
	headers.Set("Authorization", "token "+cfg.GitHubToken)
	headers.Set("Content-Type", "application/json")

	return &Dispatcher{
		url:        cfg.DispatchURL,
		httpClient: httputil.NewClientWithHeaders(cfg.Timeout(), headers),
		logger:     log,
	}
}

// Publish sends content as the new page. It makes exactly one attempt.
func (d *Dispatcher) Publish(ctx context.Context, content string) error {
	payload, err := json.Marshal(models.DispatchRequest{
		EventType:     constants.DispatchEventType,
		ClientPayload: models.DispatchPayload{NewEpisodePage: content},
	})
	if err != nil {
		return apperrors.NewPublishError("failed to encode dispatch payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewPublishError("failed to build dispatch request", err)
	}

	d.logger.Debugf("[Dispatch] POST %s (%d bytes)", d.url, len(payload))
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return apperrors.NewPublishError("dispatch request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxLoggedBodyBytes))
		return apperrors.NewPublishError(
			fmt.Sprintf("dispatch endpoint returned status %d", resp.StatusCode),
			fmt.Errorf("%s", bytes.TrimSpace(body)),
		)
	}

	d.logger.Infof("[Dispatch] page published (status %d)", resp.StatusCode)
	return nil
}

// NopPublisher accepts every page without sending it anywhere.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string) error {
	return nil
}
