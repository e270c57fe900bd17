package providers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// API Docs: https://open-meteo.com/en/docs/geocoding-api
const (
	openMeteoSearchURL  = "https://geocoding-api.open-meteo.com/v1/search"
	openMeteoReverseURL = "https://geocoding-api.open-meteo.com/v1/reverse"
)

// OpenMeteoGeocoder implements forward search and the primary reverse lookup.
type OpenMeteoGeocoder struct {
	name       string
	searchURL  string
	reverseURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(httpCfg HTTPClientConfig) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		name:       "openmeteo-geocoding",
		searchURL:  openMeteoSearchURL,
		reverseURL: openMeteoReverseURL,
		httpCfg:    httpCfg,
		circuit:    newCircuitBreaker("openmeteo-geocoding"),
	}
}

// WithBaseURLs points the geocoder at other search and reverse endpoints.
func (g *OpenMeteoGeocoder) WithBaseURLs(searchURL, reverseURL string) *OpenMeteoGeocoder {
	g.searchURL = searchURL
	g.reverseURL = reverseURL
	return g
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

type openMeteoPlace struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   string   `json:"country"`
	Admin1    string   `json:"admin1"`
}

func (p openMeteoPlace) candidate() geocode.Candidate {
	c := geocode.Candidate{
		ID:      p.ID,
		Name:    p.Name,
		Country: p.Country,
		Admin1:  p.Admin1,
	}
	if p.Latitude != nil && p.Longitude != nil {
		c.Coordinate = &weather.Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	return c
}

type openMeteoPlaces struct {
	Results []openMeteoPlace `json:"results"`
}

// Search looks places up by name.
func (g *OpenMeteoGeocoder) Search(ctx context.Context, query, lang string, count int) ([]geocode.Candidate, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", strconv.Itoa(count))
	values.Set("language", lang)
	values.Set("format", "json")

	var payload openMeteoPlaces
	if err := getJSON(ctx, g.httpCfg, g.circuit, g.searchURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	out := make([]geocode.Candidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		out = append(out, r.candidate())
	}
	return out, nil
}

// Reverse returns the single nearest named place, or nil when there is none.
func (g *OpenMeteoGeocoder) Reverse(ctx context.Context, coord weather.Coordinate, lang string) (*geocode.Candidate, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(coord.Latitude))
	values.Set("longitude", formatCoord(coord.Longitude))
	values.Set("count", "1")
	values.Set("language", lang)
	values.Set("format", "json")

	var payload openMeteoPlaces
	if err := getJSON(ctx, g.httpCfg, g.circuit, g.reverseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	c := payload.Results[0].candidate()
	return &c, nil
}
