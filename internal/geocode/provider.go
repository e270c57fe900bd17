package geocode

import (
	"context"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Candidate is one place as returned by a geocoding provider. Coordinate is
// nil when the provider does not report where its match is centered.
type Candidate struct {
	ID         int64
	Name       string
	Country    string
	Admin1     string
	Coordinate *weather.Coordinate
}

// SearchProvider resolves free text into candidate places.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query, lang string, count int) ([]Candidate, error)
}

// ReverseProvider resolves a coordinate into the nearest named place.
// A nil candidate with a nil error means the provider found nothing.
type ReverseProvider interface {
	Name() string
	Reverse(ctx context.Context, coord weather.Coordinate, lang string) (*Candidate, error)
}

// Status classifies the outcome of a lookup.
type Status int

const (
	StatusFound Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchResult is the outcome of a forward search. Places is empty unless
// Status is StatusFound; Err carries the diagnostic for StatusFailed.
type SearchResult struct {
	Places []weather.Place
	Status Status
	Err    error
}

// ReverseResult is the outcome of a reverse lookup. Place is nil unless
// Status is StatusFound.
type ReverseResult struct {
	Place    *weather.Place
	Status   Status
	Source   string
	CacheHit bool
	Err      error
}
