// Package services holds the catalog client, the page publisher and the
// episode pipeline that ties them together.
package services

import (
	"context"
	"html/template"

	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/internal/render"
	"github.com/amaumene/episodebot/internal/servicemap"
	"github.com/amaumene/episodebot/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Catalog    CatalogService
	Publisher  Publisher
	Renderer   *render.Renderer
	ServiceMap servicemap.Map
	Pipeline   *EpisodePipeline
	// Preview runs the pipeline without publishing anything.
	Preview *EpisodePipeline
	Logger  logger.Logger
}

// CatalogService defines the interface for catalog API operations.
type CatalogService interface {
	Fetch(ctx context.Context, endpoint, description string, arrayExpected bool) CatalogResult
}

// Publisher defines the interface for publishing a rendered page.
type Publisher interface {
	Publish(ctx context.Context, content string) error
}

// PageRenderer defines the rendering operations the pipeline needs.
type PageRenderer interface {
	RenderEpisodePage(show *models.TMDBTVDetails, episode *models.TMDBEpisode, season *models.TMDBSeasonDetails, linkButtons template.HTML) (string, error)
	RenderLinkButtons(providers []models.TMDBWatchProvider, showID int) template.HTML
	RenderErrorPage(description string) string
}

var (
	_ CatalogService = (*TMDB)(nil)
	_ CatalogService = (*CachedCatalog)(nil)
	_ Publisher      = (*Dispatcher)(nil)
	_ Publisher      = NopPublisher{}
	_ PageRenderer   = (*render.Renderer)(nil)
)
