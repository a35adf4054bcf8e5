// Package models defines data structures for TMDB API responses and the
// payloads this service produces.
package models

// TMDBListResponse is the v4 list endpoint (4/list/{id}).
type TMDBListResponse struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Page         int            `json:"page"`
	Results      []TMDBListItem `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// TMDBListItem is one entry of a curated list. Lists may mix movies and
// series; only the ID is used.
type TMDBListItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	MediaType  string `json:"media_type"`
	PosterPath string `json:"poster_path"`
}

type TMDBTVDetails struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	OriginalName     string       `json:"original_name"`
	Overview         string       `json:"overview"`
	PosterPath       string       `json:"poster_path"`
	BackdropPath     string       `json:"backdrop_path"`
	FirstAirDate     string       `json:"first_air_date"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	Seasons          []TMDBSeason `json:"seasons"`
}

type TMDBSeason struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	AirDate      string `json:"air_date"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path"`
}

type TMDBSeasonDetails struct {
	ID           int           `json:"id"`
	SeasonNumber int           `json:"season_number"`
	Name         string        `json:"name"`
	Overview     string        `json:"overview"`
	AirDate      string        `json:"air_date"`
	Episodes     []TMDBEpisode `json:"episodes"`
	PosterPath   string        `json:"poster_path"`
}

type TMDBEpisode struct {
	ID            int     `json:"id"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	StillPath     string  `json:"still_path"`
	VoteAverage   float64 `json:"vote_average"`
	Runtime       int     `json:"runtime"`
}

// TMDBWatchProvidersResponse is 3/tv/{id}/watch/providers, keyed by
// ISO 3166-1 country code. A country mapped to null decodes to nil.
type TMDBWatchProvidersResponse struct {
	ID      int                                 `json:"id"`
	Results map[string]*TMDBCountryAvailability `json:"results"`
}

type TMDBCountryAvailability struct {
	Link     string              `json:"link"`
	Flatrate []TMDBWatchProvider `json:"flatrate"`
	Rent     []TMDBWatchProvider `json:"rent"`
	Buy      []TMDBWatchProvider `json:"buy"`
}

type TMDBWatchProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}
