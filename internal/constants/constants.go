// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName    = "episodebot"
	AppVersion = "1.0.0"
	UserAgent  = "My-TV-Series-Bot"

	// Default configuration values
	DefaultPort     = "5000"
	DefaultLogLevel = "info"
	DefaultSchedule = "0 6 * * *"
	DefaultTimezone = "Europe/Berlin"

	// TMDB
	DefaultTMDBBaseURL      = "https://api.themoviedb.org"
	DefaultTMDBImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultTMDBLanguage     = "de-DE"
	DefaultWatchRegion      = "DE"

	// GitHub repository_dispatch
	DefaultDispatchURL   = "https://api.github.com/repos/adeveloper-wq/my-tv-series-bot/dispatches"
	DispatchEventType    = "new_episode_trigger"
	DispatchAcceptHeader = "application/vnd.github.everest-preview+json"

	// Returned by every run, whatever happened inside it.
	RunAcknowledgment = "Triggered Github Actions to update Github pages."
)

// TMDB image sizes used by the rendered page.
const (
	PosterSize = "w600_and_h900_bestv2"
	StillSize  = "w454_and_h254_bestv2"
	LogoSize   = "w300_and_h300_bestv2"
)
