package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const forecastBody = `{
  "utc_offset_seconds": 7200,
  "current": {"time": "2025-06-01T11:30", "temperature_2m": 21.4, "relative_humidity_2m": 55,
    "apparent_temperature": 20.9, "is_day": 1, "precipitation": 0.2, "weather_code": 61, "wind_speed_10m": 9.7},
  "hourly": {
    "time": ["2025-06-01T10:00", "2025-06-01T11:00", "2025-06-01T12:00"],
    "temperature_2m": [20.1, 21.0, 22.3],
    "weather_code": [3, 61, 2],
    "precipitation_probability": [10, 60, 20],
    "wind_speed_10m": [8, 9, 10],
    "relative_humidity_2m": [60, 55, 50]
  },
  "daily": {
    "time": ["2025-06-01", "2025-06-02"],
    "weather_code": [61, 0],
    "temperature_2m_max": [24, 27],
    "temperature_2m_min": [14, 15],
    "precipitation_probability_max": [70]
  }
}`

func testHTTPConfig(client *http.Client) HTTPClientConfig {
	cfg := DefaultHTTPConfig(client)
	cfg.Backoff.InitialInterval = time.Millisecond
	return cfg
}

func TestOpenMeteoForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "48.8566", q.Get("latitude"))
		assert.Equal(t, "2.3522", q.Get("longitude"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Equal(t, "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max", q.Get("daily"))
		assert.Contains(t, q.Get("current"), "apparent_temperature")
		assert.Contains(t, q.Get("hourly"), "precipitation_probability")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(testHTTPConfig(srv.Client())).WithBaseURL(srv.URL)

	raw, err := p.Forecast(context.Background(), weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, raw.UTCOffset)
	assert.Equal(t, weather.CurrentSample{
		Time:          "2025-06-01T11:30",
		Temperature:   21.4,
		FeelsLike:     20.9,
		Humidity:      55,
		WindSpeed:     9.7,
		Precipitation: 0.2,
		Code:          61,
		IsDay:         true,
	}, raw.Current)

	require.Len(t, raw.Hourly, 3)
	assert.Equal(t, weather.HourlySample{
		Time: "2025-06-01T11:00", Temperature: 21.0, Code: 61,
		PrecipitationProbability: 60, WindSpeed: 9, Humidity: 55,
	}, raw.Hourly[1])

	// precipitation_probability_max is one short, so the daily series is clamped.
	require.Len(t, raw.Daily, 1)
	assert.Equal(t, 24.0, raw.Daily[0].MaxTemperature)
	assert.Equal(t, 70.0, raw.Daily[0].PrecipitationProbability)
}

func TestOpenMeteoForecastFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `{"error":true}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{"reason":"Latitude must be in range"}`},
		{name: "undecodable body", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOpenMeteoProvider(testHTTPConfig(srv.Client())).WithBaseURL(srv.URL)

			raw, err := p.Forecast(context.Background(), weather.Coordinate{Latitude: 1, Longitude: 2})
			assert.Nil(t, raw)
			assert.ErrorIs(t, err, weather.ErrFetch)
			assert.Equal(t, 1, calls)
		})
	}
}
