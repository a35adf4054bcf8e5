package constants

// Streaming service display names as TMDB reports them in watch-provider lists
const (
	ProviderNetflix          = "Netflix"
	ProviderAmazonPrimeVideo = "Amazon Prime Video"
	ProviderDisneyPlus       = "Disney Plus"
)
