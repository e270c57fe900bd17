package geocode

import (
	"math"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	earthRadiusKm = 6371.0

	// ApproximateThresholdKm is the distance beyond which a reverse-geocoded
	// name is flagged approximate.
	ApproximateThresholdKm = 5.0
)

// Distance returns the great-circle distance in kilometers (haversine).
func Distance(a, b weather.Coordinate) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// IsApproximate reports whether a match distanceKm away should be flagged.
func IsApproximate(distanceKm float64) bool {
	return distanceKm > ApproximateThresholdKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
