package models

// DispatchRequest is the body of a GitHub repository_dispatch call.
type DispatchRequest struct {
	EventType     string          `json:"event_type"`
	ClientPayload DispatchPayload `json:"client_payload"`
}

// DispatchPayload carries the complete rendered page.
type DispatchPayload struct {
	NewEpisodePage string `json:"new_episode_page"`
}
