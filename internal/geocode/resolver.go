package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// SearchCount is how many matches a forward search asks for.
	SearchCount = 10
	// MinQueryLength is the shortest query the resolver sends upstream.
	MinQueryLength = 2
	// ReverseTTL is how long a cached reverse lookup is trusted.
	ReverseTTL = 12 * time.Hour

	sourceCache = "cache"
)

// Cache is the subset of store.Cache used for reverse lookups.
type Cache interface {
	Write(key string, v any) error
	ReadFresh(key string, ttl time.Duration, v any) (time.Time, error)
	Purge(key string) error
}

// Resolver turns text or coordinates into places. It never returns errors:
// every upstream failure degrades to an empty result that still carries the
// cause for logging.
type Resolver struct {
	search   SearchProvider
	primary  ReverseProvider
	fallback ReverseProvider
	cache    Cache
}

// NewResolver wires a search provider and a primary/fallback reverse chain.
// fallback may be nil.
func NewResolver(search SearchProvider, primary, fallback ReverseProvider, cache Cache) *Resolver {
	return &Resolver{
		search:   search,
		primary:  primary,
		fallback: fallback,
		cache:    cache,
	}
}

// CacheKey rounds coord to three decimals (about 100 m) so nearby fixes
// share an entry.
func CacheKey(coord weather.Coordinate, lang string) string {
	return fmt.Sprintf("geo_%.3f_%.3f_%s", coord.Latitude, coord.Longitude, lang)
}

// Search runs a forward search and deduplicates matches by provider ID,
// keeping the first occurrence.
func (r *Resolver) Search(ctx context.Context, query, lang string) SearchResult {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return SearchResult{Status: StatusEmpty}
	}

	candidates, err := r.search.Search(ctx, query, lang, SearchCount)
	if err != nil {
		log.Warn().Err(err).Str("provider", r.search.Name()).Str("query", query).Msg("geocoding search failed")
		return SearchResult{Status: StatusFailed, Err: err}
	}

	seen := make(map[int64]struct{}, len(candidates))
	places := make([]weather.Place, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		if c.Coordinate == nil {
			continue
		}

		places = append(places, weather.Place{
			ID:         c.ID,
			Name:       c.Name,
			Country:    c.Country,
			Admin1:     c.Admin1,
			Coordinate: *c.Coordinate,
		})
	}

	if len(places) == 0 {
		return SearchResult{Status: StatusEmpty}
	}
	return SearchResult{Places: places, Status: StatusFound}
}

// Reverse names the place at coord: a cached lookup younger than ReverseTTL,
// else the primary provider, else the fallback. A fresh result is cached.
func (r *Resolver) Reverse(ctx context.Context, coord weather.Coordinate, lang string) ReverseResult {
	key := CacheKey(coord, lang)

	var cached weather.Place
	_, err := r.cache.ReadFresh(key, ReverseTTL, &cached)
	switch {
	case err == nil:
		cached.Coordinate = coord
		return ReverseResult{Place: &cached, Status: StatusFound, Source: sourceCache, CacheHit: true}
	case errors.Is(err, store.ErrCorrupt):
		log.Warn().Err(err).Str("key", key).Msg("purging corrupt reverse geocode entry")
		if err := r.cache.Purge(key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to purge cache entry")
		}
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrExpired):
	default:
		log.Warn().Err(err).Str("key", key).Msg("reverse geocode cache read failed")
	}

	var errs []error

	place, err := r.lookup(ctx, r.primary, coord, lang, true)
	source := r.primary.Name()
	if err != nil {
		errs = append(errs, err)
	}

	if place == nil && r.fallback != nil {
		place, err = r.lookup(ctx, r.fallback, coord, lang, false)
		source = r.fallback.Name()
		if err != nil {
			errs = append(errs, err)
		}
	}

	if place == nil {
		if len(errs) > 0 {
			return ReverseResult{Status: StatusFailed, Err: errors.Join(errs...)}
		}
		return ReverseResult{Status: StatusEmpty}
	}

	if err := r.cache.Write(key, place); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache reverse geocode")
	}
	return ReverseResult{Place: place, Status: StatusFound, Source: source}
}

// lookup asks one provider. With measure set, the distance between the query
// and the match decides the approximate flag; otherwise precision is unknown
// and the match is taken as exact.
func (r *Resolver) lookup(ctx context.Context, p ReverseProvider, coord weather.Coordinate, lang string, measure bool) (*weather.Place, error) {
	c, err := p.Reverse(ctx, coord, lang)
	if err != nil {
		log.Warn().Err(err).Str("provider", p.Name()).Msg("reverse geocode failed")
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if c == nil || c.Name == "" {
		return nil, nil
	}

	approximate := false
	if measure && c.Coordinate != nil {
		approximate = IsApproximate(Distance(coord, *c.Coordinate))
	}

	return &weather.Place{
		ID:          c.ID,
		Name:        c.Name,
		Country:     c.Country,
		Admin1:      c.Admin1,
		Coordinate:  coord,
		Approximate: approximate,
	}, nil
}
