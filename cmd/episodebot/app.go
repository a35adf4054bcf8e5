package main

import (
	"fmt"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/constants"
	"github.com/amaumene/episodebot/internal/handlers"
	"github.com/amaumene/episodebot/internal/render"
	"github.com/amaumene/episodebot/internal/scheduler"
	"github.com/amaumene/episodebot/internal/servicemap"
	"github.com/amaumene/episodebot/internal/services"
	"github.com/amaumene/episodebot/pkg/logger"
	"github.com/amaumene/episodebot/pkg/security"
)

// app holds everything main wires together.
type app struct {
	config    *config.Config
	logger    logger.Logger
	services  *services.Container
	scheduler *scheduler.Scheduler
	handler   *handlers.Handler

	// previewCatalog keeps preview runs from refetching the same catalog data.
	previewCatalog *services.CachedCatalog
}

func (a *app) InitializeConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.config = cfg
	return nil
}

func (a *app) InitializeLogger() {
	a.logger = logger.NewWithOptions(logger.Options{
		Level: a.config.LogLevel,
		File:  a.config.LogFile,
	})

	a.logger.Infof("[App] list %s, region %s, schedule %q (%s)",
		a.config.ListID, a.config.WatchRegion, a.config.Schedule, a.config.Location())
	a.logger.Debugf("[App] TMDB token %s, GitHub token %s",
		security.MaskToken(a.config.TMDBAccessToken), security.MaskToken(a.config.GitHubToken))
}

func (a *app) InitializeServices() error {
	serviceMap, err := servicemap.Load(a.config.ServiceMapFile)
	if err != nil {
		return fmt.Errorf("failed to load service map: %w", err)
	}
	if a.config.ServiceMapFile != "" {
		a.logger.Infof("[App] service map loaded from %s", a.config.ServiceMapFile)
	}

	renderer := render.New(a.config.TMDBImageBaseURL, serviceMap, a.config.Location(), a.logger)
	catalog := services.NewTMDB(a.config, renderer, a.logger)
	publisher := services.NewDispatcher(a.config, a.logger)
	a.previewCatalog = services.NewCachedCatalog(catalog, constants.PreviewCacheSize, constants.PreviewCacheTTL, a.logger)

	a.services = &services.Container{
		Catalog:    catalog,
		Publisher:  publisher,
		Renderer:   renderer,
		ServiceMap: serviceMap,
		Pipeline:   services.NewEpisodePipeline(a.config, catalog, publisher, renderer, a.logger),
		Preview:    services.NewEpisodePipeline(a.config, a.previewCatalog, services.NopPublisher{}, renderer, a.logger),
		Logger:     a.logger,
	}

	sched, err := scheduler.New(a.config.Schedule, a.config.Location(), a.services.Pipeline, a.logger)
	if err != nil {
		return err
	}
	a.scheduler = sched
	a.handler = handlers.New(a.services, sched, a.config)

	a.logger.Infof("[App] services initialized successfully")
	return nil
}
