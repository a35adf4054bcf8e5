package models

import "time"

// Run outcomes
const (
	OutcomePublishedEpisode = "published_episode"
	OutcomePublishedError   = "published_error"
)

// Selection records what a run picked. Zero values mean the run stopped
// before reaching that step.
type Selection struct {
	ShowID        int    `json:"show_id,omitempty"`
	ShowName      string `json:"show_name,omitempty"`
	SeasonNumber  int    `json:"season_number,omitempty"`
	EpisodeNumber int    `json:"episode_number,omitempty"`
	EpisodeName   string `json:"episode_name,omitempty"`
}

// RunReport summarizes one pipeline run. It lives in memory only.
type RunReport struct {
	RunID         string    `json:"run_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Outcome       string    `json:"outcome"`
	FailedStage   string    `json:"failed_stage,omitempty"`
	ErrorType     string    `json:"error_type,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	PublishError  string    `json:"publish_error,omitempty"`
	Selection     Selection `json:"selection"`
	Message       string    `json:"message"`
	// Page is the HTML that was (or, in preview mode, would have been) published.
	Page string `json:"-"`
}
