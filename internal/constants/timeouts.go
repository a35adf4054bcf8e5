// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// Per-request timeout for TMDB and GitHub calls
	HTTPTimeout = 30 * time.Second

	// Upper bound for a single pipeline run triggered by the scheduler
	RunTimeout = 5 * time.Minute

	// Grace period for in-flight runs and HTTP requests on shutdown
	ShutdownTimeout = 15 * time.Second
)
