// Package render turns TMDB data into the self-contained HTML documents
// that get published: the episode page and the error page.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"time"

	"github.com/amaumene/episodebot/internal/constants"
	"github.com/amaumene/episodebot/internal/models"
	"github.com/amaumene/episodebot/internal/servicemap"
	"github.com/amaumene/episodebot/pkg/logger"
)

// TimestampLayout formats the "updated" line of every page.
const TimestampLayout = "02.01.2006, 15:04:05"

// Renderer produces HTML pages. It is safe for concurrent use.
type Renderer struct {
	imageBaseURL string
	services     servicemap.Map
	location     *time.Location
	now          func() time.Time
	logger       logger.Logger

	episodeTmpl *template.Template
	buttonTmpl  *template.Template
	errorTmpl   *template.Template
}

// New creates a Renderer. services may be nil, in which case no link
// buttons are ever rendered.
func New(imageBaseURL string, services servicemap.Map, loc *time.Location, log logger.Logger) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	r := &Renderer{
		imageBaseURL: imageBaseURL,
		services:     services,
		location:     loc,
		now:          time.Now,
		logger:       log,
	}
	r.episodeTmpl, r.buttonTmpl, r.errorTmpl = parseTemplates(template.FuncMap{
		"image": r.imageURL,
	})
	return r
}

// SetClock replaces the wall clock used for page timestamps.
func (r *Renderer) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Renderer) timestamp() string {
	return r.now().In(r.location).Format(TimestampLayout)
}

// imageURL builds a TMDB CDN URL. kind selects the image size.
func (r *Renderer) imageURL(path, kind string) string {
	size := constants.PosterSize
	switch kind {
	case "still":
		size = constants.StillSize
	case "logo":
		size = constants.LogoSize
	}
	return r.imageBaseURL + "/" + size + path
}

type episodePage struct {
	Show        *models.TMDBTVDetails
	Season      *models.TMDBSeasonDetails
	Episode     *models.TMDBEpisode
	LinkButtons template.HTML
	Updated     string
}

// RenderEpisodePage renders the page announcing the picked episode.
func (r *Renderer) RenderEpisodePage(show *models.TMDBTVDetails, episode *models.TMDBEpisode, season *models.TMDBSeasonDetails, linkButtons template.HTML) (string, error) {
	if show == nil || episode == nil || season == nil {
		return "", errors.New("render: show, episode and season are required")
	}

	var buf bytes.Buffer
	err := r.episodeTmpl.Execute(&buf, episodePage{
		Show:        show,
		Season:      season,
		Episode:     episode,
		LinkButtons: linkButtons,
		Updated:     r.timestamp(),
	})
	if err != nil {
		return "", fmt.Errorf("render episode page: %w", err)
	}
	return buf.String(), nil
}

// RenderLinkButton renders a clickable logo opening targetURL in a new tab.
func (r *Renderer) RenderLinkButton(targetURL, logoPath string) template.HTML {
	var buf bytes.Buffer
	err := r.buttonTmpl.Execute(&buf, struct {
		URL      string
		LogoPath string
	}{targetURL, logoPath})
	if err != nil {
		r.logger.Errorf("[Render] failed to render link button for %s: %v", targetURL, err)
		return ""
	}
	return template.HTML(buf.String())
}

// RenderLinkButtons renders one button per provider that has a deep link
// for showID, in provider order.
func (r *Renderer) RenderLinkButtons(providers []models.TMDBWatchProvider, showID int) template.HTML {
	id := strconv.Itoa(showID)
	if _, ok := r.services[id]; !ok {
		return ""
	}

	var buttons template.HTML
	for _, provider := range providers {
		ref, ok := r.services.Reference(id, provider.ProviderName)
		if !ok {
			continue
		}
		service, err := servicemap.ParseService(provider.ProviderName)
		if err != nil {
			r.logger.Debugf("[Render] skipping provider for show %s: %v", id, err)
			continue
		}
		buttons += r.RenderLinkButton(service.DeepLink(ref), provider.LogoPath)
	}
	return buttons
}

// RenderErrorPage renders the page published when a run fails.
func (r *Renderer) RenderErrorPage(description string) string {
	updated := r.timestamp()

	var buf bytes.Buffer
	err := r.errorTmpl.Execute(&buf, struct {
		Description string
		Updated     string
	}{description, updated})
	if err != nil {
		r.logger.Errorf("[Render] failed to render error page: %v", err)
		return "<!DOCTYPE html><title>Error</title><p>An error occured: " +
			html.EscapeString(description) + " (" + updated + ")</p>"
	}
	return buf.String()
}
