// Package servicemap links TMDB show IDs to the identifiers those shows have
// on individual streaming services, and turns such identifiers into deep
// links. TMDB does not expose these identifiers, so the table is maintained
// by hand.
package servicemap

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amaumene/episodebot/internal/constants"
)

// ErrUnsupportedService is returned for provider names without a deep-link template.
var ErrUnsupportedService = errors.New("unsupported streaming service")

// Service is a streaming service a deep link can be built for.
type Service string

const (
	Netflix          Service = constants.ProviderNetflix
	AmazonPrimeVideo Service = constants.ProviderAmazonPrimeVideo
	DisneyPlus       Service = constants.ProviderDisneyPlus
)

var urlTemplates = map[Service]string{
	Netflix:          "https://www.netflix.com/title/%s",
	AmazonPrimeVideo: "https://www.amazon.de/%s",
	DisneyPlus:       "https://www.disneyplus.com/en-gb/series/%s",
}

// ParseService maps a TMDB provider display name onto a Service.
func ParseService(providerName string) (Service, error) {
	s := Service(providerName)
	if _, ok := urlTemplates[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedService, providerName)
	}
	return s, nil
}

// DeepLink builds the URL of a title on the service.
func (s Service) DeepLink(ref string) string {
	return fmt.Sprintf(urlTemplates[s], ref)
}

// Map is show ID -> provider display name -> service specific reference.
// A reference is either a numeric ID or a URL path fragment.
type Map map[string]map[string]string

// Reference returns the reference stored for a show on a provider.
func (m Map) Reference(showID, providerName string) (string, bool) {
	byProvider, ok := m[showID]
	if !ok {
		return "", false
	}
	ref, ok := byProvider[providerName]
	return ref, ok
}

// Merge returns a new map holding m overlaid with other. Entries of other
// win on conflicts, per provider.
func (m Map) Merge(other Map) Map {
	out := make(Map, len(m)+len(other))
	for showID, byProvider := range m {
		out[showID] = copyProviders(byProvider)
	}
	for showID, byProvider := range other {
		if _, ok := out[showID]; !ok {
			out[showID] = make(map[string]string, len(byProvider))
		}
		for provider, ref := range byProvider {
			out[showID][provider] = ref
		}
	}
	return out
}

// LoadFile reads a YAML document of the form
//
//	"1418":
//	  Netflix: "70143830"
//	  Amazon Prime Video: "Penny-und-die-Physiker/dp/B00ET11KBE"
func LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service map: %w", err)
	}

	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse service map %s: %w", path, err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// Load returns the built-in map, overlaid with the YAML file at path if
// path is not empty.
func Load(path string) (Map, error) {
	m := Default()
	if path == "" {
		return m, nil
	}
	override, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return m.Merge(override), nil
}

func copyProviders(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
