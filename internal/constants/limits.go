// Package constants defines numerical limits used by the episode pipeline.
package constants

import "time"

const (
	// The tracked list must fit in a single page; pagination is not supported.
	SupportedListPages = 1

	// Season index 0 is usually "Specials" and is never picked.
	FirstPickableSeasonIndex = 1

	// Maximum number of response bytes echoed into debug logs
	MaxLoggedBodyBytes = 512
)

// Preview catalog cache
const (
	PreviewCacheSize = 256
	PreviewCacheTTL  = 10 * time.Minute
)

// Manual runs allowed through the HTTP trigger
const (
	ManualRunInterval = time.Minute
	ManualRunBurst    = 3
)
