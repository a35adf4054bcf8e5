package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/constants"
	apperrors "github.com/amaumene/episodebot/internal/errors"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/pkg/helpers"
	"github.com/amaumene/episodebot/pkg/logger"
)

// Pipeline stages, as recorded in run reports
const (
	StageList           = "list"
	StageShow           = "show"
	StageSeason         = "season"
	StageEpisode        = "episode"
	StageWatchProviders = "watch-providers"
	StageRender         = "render"
)

// EpisodePipeline picks a random episode from the tracked list and
// publishes its page. Any failure publishes an error page instead.
type EpisodePipeline struct {
	catalog   CatalogService
	publisher Publisher
	pages     PageRenderer
	logger    logger.Logger

	listID string
	region string
	pick   func(min, max int) (int, error)
	now    func() time.Time

	mu   sync.RWMutex
	last *models.RunReport
}

// NewEpisodePipeline wires a pipeline from its collaborators.
func NewEpisodePipeline(cfg *config.Config, catalog CatalogService, publisher Publisher, pages PageRenderer, log logger.Logger) *EpisodePipeline {
	return &EpisodePipeline{
		catalog:   catalog,
		publisher: publisher,
		pages:     pages,
		logger:    log,
		listID:    cfg.ListID,
		region:    cfg.WatchRegion,
		pick:      helpers.PickIndex,
		now:       time.Now,
	}
}

// stageFailure ends a run: page is what gets published in place of the
// episode page.
type stageFailure struct {
	stage string
	err   *apperrors.PipelineError
	page  string
}

// Run executes one complete pipeline. It never fails: the returned report
// says what was published.
func (p *EpisodePipeline) Run(ctx context.Context, scheduled time.Time) models.RunReport {
	report := models.RunReport{
		RunID:         uuid.NewString(),
		ScheduledTime: scheduled,
		StartedAt:     p.now(),
		Message:       constants.RunAcknowledgment,
	}
	p.logger.Infof("[Pipeline] run %s started (scheduled for %s)", report.RunID, scheduled.Format(time.RFC3339))

	page, failure := p.buildPage(ctx, &report)
	if failure != nil {
		p.logger.Errorf("[Pipeline] run %s failed at stage %s: %v", report.RunID, failure.stage, failure.err)
		report.Outcome = models.OutcomePublishedError
		report.FailedStage = failure.stage
		report.ErrorType = failure.err.Type
		report.ErrorMessage = failure.err.Message
		page = failure.page
	} else {
		report.Outcome = models.OutcomePublishedEpisode
	}
	report.Page = page

	if err := p.publisher.Publish(ctx, page); err != nil {
		p.logger.Errorf("[Pipeline] run %s could not publish page: %v", report.RunID, err)
		report.PublishError = err.Error()
	}

	report.FinishedAt = p.now()
	p.logger.Infof("[Pipeline] run %s finished: %s in %v", report.RunID, report.Outcome, report.FinishedAt.Sub(report.StartedAt))

	p.mu.Lock()
	p.last = &report
	p.mu.Unlock()

	return report
}

// LastReport returns the report of the most recent run.
func (p *EpisodePipeline) LastReport() (models.RunReport, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return models.RunReport{}, false
	}
	return *p.last, true
}

func (p *EpisodePipeline) buildPage(ctx context.Context, report *models.RunReport) (string, *stageFailure) {
	sel := &report.Selection

	// Tracked shows
	p.logger.Infof("[Pipeline] run %s: fetching list data", report.RunID)
	var list models.TMDBListResponse
	if f := p.fetch(ctx, StageList, fmt.Sprintf("4/list/%s", p.listID),
		"Getting the shows in the list.", "results",
		"Response from the list-endpoint doesn't contain the shows.", &list); f != nil {
		return "", f
	}
	if list.TotalPages != constants.SupportedListPages {
		return "", p.fail(StageList, apperrors.NewUnsupportedScaleError("Too many shows. The code needs to be updated."))
	}

	idx, err := p.pick(0, list.TotalResults)
	if err != nil || idx >= len(list.Results) {
		return "", p.fail(StageList, selectionError("show", "list", err))
	}
	showID := list.Results[idx].ID
	sel.ShowID = showID

	// Show with its seasons
	p.logger.Infof("[Pipeline] run %s: fetching show %d", report.RunID, showID)
	var show models.TMDBTVDetails
	if f := p.fetch(ctx, StageShow, fmt.Sprintf("3/tv/%d", showID),
		"Getting the seasons and show information.", "seasons",
		"Response from the show-endpoint doesn't contain the seasons.", &show); f != nil {
		return "", f
	}
	sel.ShowName = show.Name

	idx, err = p.pick(constants.FirstPickableSeasonIndex, show.NumberOfSeasons)
	if err != nil || idx >= len(show.Seasons) {
		return "", p.fail(StageShow, selectionError("season", "show", err))
	}
	seasonNumber := show.Seasons[idx].SeasonNumber
	sel.SeasonNumber = seasonNumber

	// Season with its episodes
	p.logger.Infof("[Pipeline] run %s: fetching season %d of show %d", report.RunID, seasonNumber, showID)
	var season models.TMDBSeasonDetails
	if f := p.fetch(ctx, StageSeason, fmt.Sprintf("3/tv/%d/season/%d", showID, seasonNumber),
		"Getting the season informations and episodes of season.", "episodes",
		"Response from the season-endpoint doesn't contain the episodes.", &season); f != nil {
		return "", f
	}

	idx, err = p.pick(0, len(season.Episodes))
	if err != nil || idx >= len(season.Episodes) {
		return "", p.fail(StageSeason, selectionError("episode", "season", err))
	}
	episodeNumber := season.Episodes[idx].EpisodeNumber
	sel.EpisodeNumber = episodeNumber

	// Episode details
	p.logger.Infof("[Pipeline] run %s: fetching episode S%dE%d", report.RunID, seasonNumber, episodeNumber)
	var episode models.TMDBEpisode
	if f := p.fetch(ctx, StageEpisode, fmt.Sprintf("3/tv/%d/season/%d/episode/%d", showID, seasonNumber, episodeNumber),
		"Getting the episode informations.", "name",
		"Response from the episode-endpoint doesn't contain the field 'name'.", &episode); f != nil {
		return "", f
	}
	sel.EpisodeName = episode.Name

	// Where to watch
	p.logger.Infof("[Pipeline] run %s: fetching watch providers", report.RunID)
	missingRegion := fmt.Sprintf("Response from the watch-provider-endpoint doesn't contain the field '%s'.", p.region)
	var providers models.TMDBWatchProvidersResponse
	if f := p.fetch(ctx, StageWatchProviders, fmt.Sprintf("3/tv/%d/watch/providers", showID),
		"Getting the show watch provider informations.", "results",
		missingRegion, &providers); f != nil {
		return "", f
	}
	availability, ok := providers.Results[p.region]
	if !ok || availability == nil {
		return "", p.fail(StageWatchProviders, apperrors.NewMissingFieldError(missingRegion))
	}

	p.logger.Infof("[Pipeline] run %s: generating HTML", report.RunID)
	buttons := p.pages.RenderLinkButtons(availability.Flatrate, showID)
	page, err := p.pages.RenderEpisodePage(&show, &episode, &season, buttons)
	if err != nil {
		return "", p.fail(StageRender, apperrors.NewRenderError("Rendering the episode page failed.", err))
	}
	return page, nil
}

// fetch requests endpoint, checks that field is present and decodes the
// payload into v.
func (p *EpisodePipeline) fetch(ctx context.Context, stage, endpoint, description, field, missingMessage string, v interface{}) *stageFailure {
	result := p.catalog.Fetch(ctx, endpoint, description, false)
	if !result.OK() {
		err := result.Err
		if err == nil {
			err = apperrors.NewUpstreamError(description, nil)
		}
		return &stageFailure{stage: stage, err: err, page: result.ErrorPage}
	}
	if !result.Has(field) {
		return p.fail(stage, apperrors.NewMissingFieldError(missingMessage))
	}
	if err := result.Decode(v); err != nil {
		return p.fail(stage, apperrors.NewPipelineError(apperrors.ErrorTypeShapeMismatch,
			description+" Returned object has an unexpected format.", err))
	}
	return nil
}

func (p *EpisodePipeline) fail(stage string, err *apperrors.PipelineError) *stageFailure {
	return &stageFailure{
		stage: stage,
		err:   err,
		page:  p.pages.RenderErrorPage(err.Message),
	}
}

func selectionError(thing, endpoint string, cause error) *apperrors.PipelineError {
	return apperrors.NewSelectionError(
		fmt.Sprintf("No selectable %s in the response from the %s-endpoint.", thing, endpoint), cause)
}
