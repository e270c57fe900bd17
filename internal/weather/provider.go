package weather

import (
	"context"
	"errors"
	"time"
)

// ErrFetch marks a forecast request the provider did not answer successfully.
var ErrFetch = errors.New("failed to fetch weather")

// CurrentSample is the provider's current-conditions block.
type CurrentSample struct {
	Time          string
	Temperature   float64
	FeelsLike     float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
	Code          int
	IsDay         bool
}

// HourlySample is one hourly row; Time is the provider's local ISO string.
type HourlySample struct {
	Time                     string
	Temperature              float64
	Code                     int
	PrecipitationProbability float64
	WindSpeed                float64
	Humidity                 float64
}

// DailySample is one daily row; Time is the provider's local date string.
type DailySample struct {
	Time                     string
	MinTemperature           float64
	MaxTemperature           float64
	Code                     int
	PrecipitationProbability float64
}

// ProviderForecast is a provider's forecast, normalized into rows but not yet
// aligned or truncated.
type ProviderForecast struct {
	// UTCOffset is the offset of the series' local time from UTC.
	UTCOffset time.Duration
	Current   CurrentSample
	Hourly    []HourlySample
	Daily     []DailySample
}

// ForecastSource abstracts the forecast API (Open-Meteo).
type ForecastSource interface {
	Name() string
	Forecast(ctx context.Context, coord Coordinate) (*ProviderForecast, error)
}

// SnapshotStore is the contract the local cache must satisfy for snapshots.
type SnapshotStore interface {
	Write(key string, v any) error
	Read(key string, v any) (time.Time, error)
}
