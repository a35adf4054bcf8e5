package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/episodebot/internal/constants"
	"github.com/amaumene/episodebot/internal/middleware"
	"github.com/amaumene/episodebot/internal/models"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline a single time and exit")
	flag.Parse()

	a := &app{}
	if err := a.InitializeConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", constants.AppName, err)
		os.Exit(1)
	}
	a.InitializeLogger()
	if err := a.InitializeServices(); err != nil {
		a.logger.Fatalf("[App] %v", err)
	}

	if *once {
		os.Exit(runOnce(a))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.previewCatalog.StartCleanup(ctx, constants.PreviewCacheTTL)
	if err := a.scheduler.Start(ctx); err != nil {
		a.logger.Fatalf("[App] failed to start scheduler: %v", err)
	}
	a.logger.Infof("[App] next run at %s", a.scheduler.Next().Format(time.RFC3339))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Gzip(a.logger))
	a.handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + a.config.Port,
		Handler: r,
	}

	go func() {
		a.logger.Infof("[App] starting HTTP server on port %s", a.config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf("[App] HTTP server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Infof("[App] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Errorf("[App] HTTP server shutdown: %v", err)
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Errorf("[App] scheduler shutdown: %v", err)
	}
	a.logger.Infof("[App] stopped")
}

// runOnce publishes one page and returns the process exit code.
func runOnce(a *app) int {
	ctx, cancel := context.WithTimeout(context.Background(), constants.RunTimeout)
	defer cancel()

	report := a.scheduler.Trigger(ctx)
	fmt.Println(report.Message)

	if report.PublishError != "" {
		return 1
	}
	if report.Outcome != models.OutcomePublishedEpisode {
		return 2
	}
	return 0
}
