package weather

import (
	"time"
)

// Condition is a human-readable description key for a WMO weather code.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly_cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionFog          Condition = "fog"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionThunderstorm Condition = "thunderstorm"
)

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a resolved location. Approximate is set when the name came from a
// reverse lookup whose own center is more than 5 km from the queried point.
type Place struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name"`
	Country     string     `json:"country,omitempty"`
	Admin1      string     `json:"admin1,omitempty"`
	Coordinate  Coordinate `json:"coordinate"`
	Approximate bool       `json:"approximate"`
}

// Label returns the display string used as the snapshot's city.
func (p Place) Label() string {
	if p.Country == "" {
		return p.Name
	}
	return p.Name + ", " + p.Country
}

// Current holds the conditions at fetch time.
type Current struct {
	Temperature   float64   `json:"temp"`
	FeelsLike     float64   `json:"feelsLike"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"windSpeed"`
	Precipitation float64   `json:"precipitation"`
	Code          int       `json:"iconCode"`
	Description   Condition `json:"description"`
	IsDay         bool      `json:"isDay"`
	Timestamp     time.Time `json:"timestamp"`
}

// HourlyPoint is one hourly sample.
type HourlyPoint struct {
	Timestamp                time.Time `json:"timestamp"`
	Temperature              float64   `json:"temp"`
	Code                     int       `json:"iconCode"`
	PrecipitationProbability float64   `json:"pop"`
	WindSpeed                float64   `json:"windSpeed"`
	Humidity                 float64   `json:"humidity"`
}

// DailyPoint is one daily sample.
type DailyPoint struct {
	Timestamp                time.Time `json:"timestamp"`
	MinTemperature           float64   `json:"minTemp"`
	MaxTemperature           float64   `json:"maxTemp"`
	Code                     int       `json:"iconCode"`
	Description              Condition `json:"description"`
	PrecipitationProbability float64   `json:"pop"`
}

// SnapshotLocation is the place a snapshot was fetched for.
type SnapshotLocation struct {
	City        string  `json:"city"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Approximate bool    `json:"isApproximate"`
}

// ForecastSnapshot is the full current+hourly+daily bundle for one place at
// one fetch time.
type ForecastSnapshot struct {
	Current     Current          `json:"current"`
	Hourly      []HourlyPoint    `json:"hourly"`
	Daily       []DailyPoint     `json:"daily"`
	Location    SnapshotLocation `json:"location"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// Coordinate returns the point the snapshot was fetched for.
func (s ForecastSnapshot) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude}
}
