package geocode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// northOf returns the point km kilometers due north of c.
func northOf(c weather.Coordinate, km float64) weather.Coordinate {
	return weather.Coordinate{
		Latitude:  c.Latitude + km/earthRadiusKm*180/math.Pi,
		Longitude: c.Longitude,
	}
}

func TestDistance(t *testing.T) {
	paris := weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522}
	london := weather.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	tests := []struct {
		name string
		a, b weather.Coordinate
		want float64
		tol  float64
	}{
		{name: "same point", a: paris, b: paris, want: 0, tol: 1e-9},
		{name: "paris to london", a: paris, b: london, want: 343.5, tol: 1},
		{name: "symmetric", a: london, b: paris, want: 343.5, tol: 1},
		{name: "one degree of latitude", a: weather.Coordinate{}, b: weather.Coordinate{Latitude: 1}, want: 111.19, tol: 0.01},
		{name: "two km north", a: paris, b: northOf(paris, 2), want: 2, tol: 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), tt.tol)
		})
	}
}

func TestIsApproximateBoundary(t *testing.T) {
	origin := weather.Coordinate{Latitude: 48.8566, Longitude: 2.3522}

	tests := []struct {
		name string
		km   float64
		want bool
	}{
		{name: "well inside", km: 2, want: false},
		{name: "just under five", km: 4.999, want: false},
		{name: "just over five", km: 5.001, want: true},
		{name: "far away", km: 40, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(origin, northOf(origin, tt.km))
			assert.Equal(t, tt.want, IsApproximate(d), "distance %.6f km", d)
		})
	}

	assert.False(t, IsApproximate(5.0), "exactly five km is not approximate")
	assert.True(t, IsApproximate(math.Nextafter(5.0, 6)))
}
