package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// LastForecastKey is the cache key of the most recent snapshot.
const LastForecastKey = "last_weather"

// Service turns coordinates into forecast snapshots and keeps the last one.
type Service struct {
	source ForecastSource
	store  SnapshotStore
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(source ForecastSource, store SnapshotStore) *Service {
	return &Service{
		source: source,
		store:  store,
		now:    time.Now,
	}
}

// WithClock overrides the clock used for fetch timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Fetch requests a forecast for coord and builds a snapshot labelled city.
// Only an unsuccessful upstream response is an error; a short series is not.
func (s *Service) Fetch(ctx context.Context, coord Coordinate, city string, approximate bool) (ForecastSnapshot, error) {
	raw, err := s.source.Forecast(ctx, coord)
	if err != nil {
		return ForecastSnapshot{}, fmt.Errorf("%s forecast for %s: %w", s.source.Name(), city, err)
	}

	snapshot := BuildSnapshot(raw, city, coord, approximate, s.now())
	log.Debug().
		Str("city", city).
		Int("hourly", len(snapshot.Hourly)).
		Int("daily", len(snapshot.Daily)).
		Msg("forecast fetched")
	return snapshot, nil
}

// FetchAndStore fetches a snapshot and overwrites the cached last forecast.
func (s *Service) FetchAndStore(ctx context.Context, coord Coordinate, city string, approximate bool) (ForecastSnapshot, error) {
	snapshot, err := s.Fetch(ctx, coord, city, approximate)
	if err != nil {
		return ForecastSnapshot{}, err
	}
	s.Store(snapshot)
	return snapshot, nil
}

// Store overwrites the cached last forecast. A write failure is logged and
// otherwise ignored.
func (s *Service) Store(snapshot ForecastSnapshot) {
	if err := s.store.Write(LastForecastKey, snapshot); err != nil {
		log.Warn().Err(err).Str("city", snapshot.Location.City).Msg("failed to cache forecast")
	}
}

// Latest returns the cached last forecast regardless of its age; staleness
// is reported separately through IsStale.
func (s *Service) Latest() (ForecastSnapshot, error) {
	var snapshot ForecastSnapshot
	if _, err := s.store.Read(LastForecastKey, &snapshot); err != nil {
		return ForecastSnapshot{}, err
	}
	return snapshot, nil
}
