package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// API Docs: https://open-meteo.com/en/docs
const openMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"

var (
	currentVars = []string{
		"temperature_2m",
		"relative_humidity_2m",
		"apparent_temperature",
		"is_day",
		"precipitation",
		"weather_code",
		"wind_speed_10m",
	}

	hourlyVars = []string{
		"temperature_2m",
		"weather_code",
		"precipitation_probability",
		"wind_speed_10m",
		"relative_humidity_2m",
	}

	dailyVars = []string{
		"weather_code",
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_probability_max",
	}
)

// OpenMeteoProvider implements weather.ForecastSource for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(httpCfg HTTPClientConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: openMeteoForecastURL,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openmeteo-forecast"),
	}
}

// WithBaseURL points the provider at another forecast endpoint.
func (p *OpenMeteoProvider) WithBaseURL(baseURL string) *OpenMeteoProvider {
	p.baseURL = baseURL
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoForecast struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Current          struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		IsDay               int     `json:"is_day"`
		Precipitation       float64 `json:"precipitation"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature              []float64 `json:"temperature_2m"`
		WeatherCode              []int     `json:"weather_code"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WindSpeed                []float64 `json:"wind_speed_10m"`
		RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
	Daily struct {
		Time                        []string  `json:"time"`
		WeatherCode                 []int     `json:"weather_code"`
		TemperatureMax              []float64 `json:"temperature_2m_max"`
		TemperatureMin              []float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Forecast fetches current, hourly and daily data with provider-side
// timezone alignment.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, coord weather.Coordinate) (*weather.ProviderForecast, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(coord.Latitude))
	values.Set("longitude", formatCoord(coord.Longitude))
	values.Set("current", strings.Join(currentVars, ","))
	values.Set("hourly", strings.Join(hourlyVars, ","))
	values.Set("daily", strings.Join(dailyVars, ","))
	values.Set("timezone", "auto")

	var payload openMeteoForecast
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrFetch, err)
	}

	return payload.toProviderForecast(), nil
}

// toProviderForecast zips the column arrays into rows. Columns of unequal
// length are clamped to the shortest so no row is half filled.
func (f *openMeteoForecast) toProviderForecast() *weather.ProviderForecast {
	out := &weather.ProviderForecast{
		UTCOffset: time.Duration(f.UTCOffsetSeconds) * time.Second,
		Current: weather.CurrentSample{
			Time:          f.Current.Time,
			Temperature:   f.Current.Temperature,
			FeelsLike:     f.Current.ApparentTemperature,
			Humidity:      f.Current.RelativeHumidity,
			WindSpeed:     f.Current.WindSpeed,
			Precipitation: f.Current.Precipitation,
			Code:          f.Current.WeatherCode,
			IsDay:         f.Current.IsDay == 1,
		},
	}

	h := f.Hourly
	n := min(len(h.Time), len(h.Temperature), len(h.WeatherCode),
		len(h.PrecipitationProbability), len(h.WindSpeed), len(h.RelativeHumidity))
	if n < len(h.Time) {
		log.Warn().Int("times", len(h.Time)).Int("usable", n).Msg("openmeteo hourly series have mismatched lengths")
	}
	out.Hourly = make([]weather.HourlySample, n)
	for i := 0; i < n; i++ {
		out.Hourly[i] = weather.HourlySample{
			Time:                     h.Time[i],
			Temperature:              h.Temperature[i],
			Code:                     h.WeatherCode[i],
			PrecipitationProbability: h.PrecipitationProbability[i],
			WindSpeed:                h.WindSpeed[i],
			Humidity:                 h.RelativeHumidity[i],
		}
	}

	d := f.Daily
	n = min(len(d.Time), len(d.WeatherCode), len(d.TemperatureMax),
		len(d.TemperatureMin), len(d.PrecipitationProbabilityMax))
	if n < len(d.Time) {
		log.Warn().Int("times", len(d.Time)).Int("usable", n).Msg("openmeteo daily series have mismatched lengths")
	}
	out.Daily = make([]weather.DailySample, n)
	for i := 0; i < n; i++ {
		out.Daily[i] = weather.DailySample{
			Time:                     d.Time[i],
			MinTemperature:           d.TemperatureMin[i],
			MaxTemperature:           d.TemperatureMax[i],
			Code:                     d.WeatherCode[i],
			PrecipitationProbability: d.PrecipitationProbabilityMax[i],
		}
	}

	return out
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
