package weather

import (
	"strings"
	"time"
)

const (
	// MaxHourly and MaxDaily bound the series kept in a snapshot.
	MaxHourly = 24
	MaxDaily  = 7

	hourLayout = "2006-01-02T15:04"
	hourPrefix = "2006-01-02T15"
	dayLayout  = "2006-01-02"
	staleAfter = 15 * time.Minute
)

// BuildSnapshot aligns and truncates a provider forecast into a
// ForecastSnapshot for the given place label. now is the fetch time.
func BuildSnapshot(raw *ProviderForecast, city string, coord Coordinate, approximate bool, now time.Time) ForecastSnapshot {
	zone := time.FixedZone("", int(raw.UTCOffset.Seconds()))

	start := currentHourIndex(raw.Hourly, now.In(zone))
	end := min(start+MaxHourly, len(raw.Hourly))
	hourly := make([]HourlyPoint, 0, end-start)
	for _, h := range raw.Hourly[start:end] {
		hourly = append(hourly, HourlyPoint{
			Timestamp:                parseLocal(h.Time, hourLayout, zone),
			Temperature:              h.Temperature,
			Code:                     h.Code,
			PrecipitationProbability: h.PrecipitationProbability,
			WindSpeed:                h.WindSpeed,
			Humidity:                 h.Humidity,
		})
	}

	days := min(MaxDaily, len(raw.Daily))
	daily := make([]DailyPoint, 0, days)
	for _, d := range raw.Daily[:days] {
		daily = append(daily, DailyPoint{
			Timestamp:                parseLocal(d.Time, dayLayout, zone),
			MinTemperature:           d.MinTemperature,
			MaxTemperature:           d.MaxTemperature,
			Code:                     d.Code,
			Description:              DescriptionKey(d.Code),
			PrecipitationProbability: d.PrecipitationProbability,
		})
	}

	captured := parseLocal(raw.Current.Time, hourLayout, zone)
	if captured.IsZero() {
		captured = now
	}

	return ForecastSnapshot{
		Current: Current{
			Temperature:   raw.Current.Temperature,
			FeelsLike:     raw.Current.FeelsLike,
			Humidity:      raw.Current.Humidity,
			WindSpeed:     raw.Current.WindSpeed,
			Precipitation: raw.Current.Precipitation,
			Code:          raw.Current.Code,
			Description:   DescriptionKey(raw.Current.Code),
			IsDay:         raw.Current.IsDay,
			Timestamp:     captured,
		},
		Hourly: hourly,
		Daily:  daily,
		Location: SnapshotLocation{
			City:        city,
			Latitude:    coord.Latitude,
			Longitude:   coord.Longitude,
			Approximate: approximate,
		},
		LastUpdated: now,
	}
}

// currentHourIndex finds the first sample inside the hour of localNow,
// falling back to the start of the series.
func currentHourIndex(samples []HourlySample, localNow time.Time) int {
	prefix := localNow.Format(hourPrefix)
	for i, s := range samples {
		if strings.HasPrefix(s.Time, prefix) {
			return i
		}
	}
	return 0
}

func parseLocal(value, layout string, zone *time.Location) time.Time {
	t, err := time.ParseInLocation(layout, value, zone)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsStale reports whether the snapshot is old enough to show the offline banner.
func IsStale(s ForecastSnapshot, now time.Time) bool {
	return now.Sub(s.LastUpdated) > staleAfter
}
