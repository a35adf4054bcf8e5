// Package handlers implements the HTTP endpoints used to inspect and trigger
// the episode pipeline.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/amaumene/episodebot/internal/config"
	"github.com/amaumene/episodebot/internal/constants"
	"github.com/amaumene/episodebot/internal/middleware"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/internal/services"
)

// Trigger starts pipeline runs outside the schedule.
type Trigger interface {
	Trigger(ctx context.Context) models.RunReport
	Next() time.Time
}

// Handler handles HTTP requests for the bot.
type Handler struct {
	services *services.Container
	trigger  Trigger
	config   *config.Config
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, trigger Trigger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		trigger:  trigger,
		config:   config,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)
	r.GET("/health", h.handleHealth)
	r.GET("/status", h.handleStatus)

	// Manual runs
	limiter := rate.NewLimiter(rate.Every(constants.ManualRunInterval), constants.ManualRunBurst)
	protected := r.Group("/",
		middleware.RequireBearer(h.config.TriggerToken),
		middleware.RateLimit(limiter),
	)
	protected.POST("/run", h.handleRun)
	protected.GET("/preview", h.handlePreview)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "%s is running. POST /run to publish a new episode page.", constants.AppName)
}

func (h *Handler) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if next := h.trigger.Next(); !next.IsZero() {
		resp["next_run"] = next.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleStatus(c *gin.Context) {
	report, ok := h.services.Pipeline.LastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has finished yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleRun publishes a page right away. The response is the same
// acknowledgment whatever page got published; the report says which.
// The run outlives a disconnecting client so a page is never half published.
func (h *Handler) handleRun(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), constants.RunTimeout)
	defer cancel()

	report := h.trigger.Trigger(ctx)

	c.Header("X-Run-ID", report.RunID)
	c.JSON(http.StatusOK, gin.H{
		"message": report.Message,
		"report":  report,
	})
}

// handlePreview renders the page a run would publish, without publishing it.
func (h *Handler) handlePreview(c *gin.Context) {
	report := h.services.Preview.Run(c.Request.Context(), time.Now().In(h.config.Location()))

	c.Header("X-Run-ID", report.RunID)
	c.Header("X-Run-Outcome", report.Outcome)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(report.Page))
}
