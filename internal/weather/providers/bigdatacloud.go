package providers

import (
	"context"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Keyless client endpoint; it reports no match coordinate.
const bigDataCloudReverseURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"

// BigDataCloudGeocoder is the fallback reverse geocoder.
type BigDataCloudGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewBigDataCloudGeocoder(httpCfg HTTPClientConfig) *BigDataCloudGeocoder {
	return &BigDataCloudGeocoder{
		name:    "bigdatacloud",
		baseURL: bigDataCloudReverseURL,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("bigdatacloud"),
	}
}

// WithBaseURL points the geocoder at another endpoint.
func (g *BigDataCloudGeocoder) WithBaseURL(baseURL string) *BigDataCloudGeocoder {
	g.baseURL = baseURL
	return g
}

func (g *BigDataCloudGeocoder) Name() string {
	return g.name
}

// Reverse names coord from the city, locality or principal subdivision
// field, in that order.
func (g *BigDataCloudGeocoder) Reverse(ctx context.Context, coord weather.Coordinate, lang string) (*geocode.Candidate, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(coord.Latitude))
	values.Set("longitude", formatCoord(coord.Longitude))
	values.Set("localityLanguage", lang)

	var payload struct {
		City                 string `json:"city"`
		Locality             string `json:"locality"`
		PrincipalSubdivision string `json:"principalSubdivision"`
		CountryName          string `json:"countryName"`
	}
	if err := getJSON(ctx, g.httpCfg, g.circuit, g.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	name := common.FirstNonEmpty(payload.City, payload.Locality, payload.PrincipalSubdivision)
	if name == "" {
		return nil, nil
	}

	return &geocode.Candidate{
		Name:    name,
		Country: payload.CountryName,
		Admin1:  payload.PrincipalSubdivision,
	}, nil
}
