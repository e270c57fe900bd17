// Package dashboard holds the application state behind the weather dashboard
// and the transitions that change it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/i18n"
	"github.com/i474232898/weather-dashboard/internal/suggest"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// DebounceDelay is how long SetQuery waits for typing to settle.
	DebounceDelay = 400 * time.Millisecond
	// minTypedQuery is the length a typed query must exceed to be searched.
	minTypedQuery = 2

	searchTimeout = 10 * time.Second
)

var (
	// ErrStale is returned when a newer request superseded this one; its
	// response was discarded.
	ErrStale = errors.New("superseded by a newer request")
	// ErrNoResult is returned when a referenced place is not among the
	// current search results.
	ErrNoResult = errors.New("no such search result")
	// ErrNoWeather is returned by operations that need a loaded snapshot.
	ErrNoWeather = errors.New("no weather loaded")
)

// Resolver resolves place names and coordinates.
type Resolver interface {
	Search(ctx context.Context, query, lang string) geocode.SearchResult
	Reverse(ctx context.Context, coord weather.Coordinate, lang string) geocode.ReverseResult
}

// Forecaster fetches snapshots and keeps the last one.
type Forecaster interface {
	Fetch(ctx context.Context, coord weather.Coordinate, city string, approximate bool) (weather.ForecastSnapshot, error)
	Store(snapshot weather.ForecastSnapshot)
	Latest() (weather.ForecastSnapshot, error)
}

// Suggester produces outfit and activity advice.
type Suggester interface {
	Suggest(ctx context.Context, snapshot weather.ForecastSnapshot, style suggest.Style, lang string) (suggest.Suggestion, error)
}

// Translator resolves message keys.
type Translator interface {
	T(lang, key string) string
}

// Controller owns the dashboard State. All methods are safe for concurrent
// use. Search and weather loads each carry a sequence number; a response
// that is not the latest issued is dropped with ErrStale.
type Controller struct {
	resolver  Resolver
	forecasts Forecaster
	suggester Suggester
	tr        Translator

	home     weather.Place
	debounce time.Duration
	now      func() time.Time

	mu        sync.Mutex
	state     State
	searchSeq uint64
	loadSeq   uint64
	timer     *time.Timer
}

// Options configures a Controller.
type Options struct {
	// Home is loaded when nothing is cached.
	Home     weather.Place
	Language string
	Theme    Theme
	// Debounce overrides DebounceDelay when positive.
	Debounce time.Duration
}

// NewController creates a controller in its initial state.
func NewController(resolver Resolver, forecasts Forecaster, suggester Suggester, tr Translator, opts Options) *Controller {
	if opts.Language == "" {
		opts.Language = i18n.English
	}
	if opts.Theme == "" {
		opts.Theme = ThemeSystem
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DebounceDelay
	}

	return &Controller{
		resolver:  resolver,
		forecasts: forecasts,
		suggester: suggester,
		tr:        tr,
		home:      opts.Home,
		debounce:  opts.Debounce,
		now:       time.Now,
		state: State{
			Language: opts.Language,
			Theme:    opts.Theme,
		},
	}
}

// WithClock overrides the clock used for the offline flag.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// Snapshot returns a copy of the current state with the offline flag
// evaluated now.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.state.clone()
	out.Offline = out.Weather != nil && weather.IsStale(*out.Weather, c.now())
	return out
}

// Language returns the active language.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Language
}

// Start shows the cached last forecast if there is one, otherwise loads the
// home place.
func (c *Controller) Start(ctx context.Context) error {
	cached, err := c.forecasts.Latest()
	if err == nil {
		c.mu.Lock()
		c.state.Weather = &cached
		c.state.Loading = false
		c.mu.Unlock()
		log.Info().Str("city", cached.Location.City).Msg("showing cached forecast")
		return nil
	}

	_, err = c.LoadWeather(ctx, c.home)
	return err
}

// SetLanguage switches the language. A pending typed query is searched
// again in the new language.
func (c *Controller) SetLanguage(lang string) error {
	if !i18n.Supported(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}

	c.mu.Lock()
	c.state.Language = lang
	query := c.state.Query
	c.mu.Unlock()

	if query != "" {
		c.SetQuery(query)
	}
	return nil
}

// SetTheme switches the theme.
func (c *Controller) SetTheme(theme Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Theme = theme
}

// SetQuery records typed text and schedules a search once typing settles.
// Queries of two runes or fewer clear the results instead.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Query = query
	c.state.Notice = ""
	if c.timer != nil {
		c.timer.Stop()
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) <= minTypedQuery {
		c.searchSeq++
		c.state.Results = nil
		c.state.Searching = false
		return
	}

	c.timer = time.AfterFunc(c.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		if _, err := c.Search(ctx, query); err != nil && !errors.Is(err, ErrStale) {
			log.Warn().Err(err).Str("query", query).Msg("debounced search failed")
		}
	})
}

// Search resolves query immediately and publishes the results unless a
// newer search or weather load was issued meanwhile.
func (c *Controller) Search(ctx context.Context, query string) ([]weather.Place, error) {
	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	lang := c.state.Language
	c.state.Query = query
	c.state.Searching = true
	c.state.Notice = ""
	c.mu.Unlock()

	res := c.resolver.Search(ctx, query, lang)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.searchSeq {
		log.Debug().Str("query", query).Msg("discarding stale search response")
		return nil, ErrStale
	}

	c.state.Searching = false
	c.state.Results = res.Places
	if res.Status != geocode.StatusFound && utf8.RuneCountInString(strings.TrimSpace(query)) > minTypedQuery {
		c.state.Notice = c.tr.T(lang, i18n.KeyNoResults)
	}
	return res.Places, nil
}

// Select loads the weather for the search result with the given ID.
func (c *Controller) Select(ctx context.Context, id int64) (weather.ForecastSnapshot, error) {
	c.mu.Lock()
	var (
		place weather.Place
		found bool
	)
	for _, p := range c.state.Results {
		if p.ID == id {
			place, found = p, true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return weather.ForecastSnapshot{}, fmt.Errorf("%w: %d", ErrNoResult, id)
	}
	return c.LoadWeather(ctx, place)
}

// LoadWeather fetches the forecast for place labelled with its display name.
func (c *Controller) LoadWeather(ctx context.Context, place weather.Place) (weather.ForecastSnapshot, error) {
	seq, _ := c.beginLoad()
	return c.finishLoad(ctx, seq, place.Coordinate, place.Label(), place.Approximate)
}

// UseGPS names the place at coord by reverse lookup and loads its weather.
// Without a name the place is labelled unknown and marked approximate.
func (c *Controller) UseGPS(ctx context.Context, coord weather.Coordinate) (weather.ForecastSnapshot, error) {
	seq, lang := c.beginLoad()

	city := c.tr.T(lang, i18n.KeyUnknownLocation)
	approximate := true

	res := c.resolver.Reverse(ctx, coord, lang)
	if res.Status == geocode.StatusFound && res.Place != nil {
		city = res.Place.Label()
		if res.Place.Approximate {
			city = c.tr.T(lang, i18n.KeyNear) + " " + city
		}
		approximate = res.Place.Approximate
	}

	return c.finishLoad(ctx, seq, coord, city, approximate)
}

// LocationUnavailable records that no position fix could be obtained.
func (c *Controller) LocationUnavailable(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Warn().Err(cause).Msg("location unavailable")
	c.loadSeq++
	c.state.Loading = false
	c.state.Error = c.tr.T(c.state.Language, i18n.KeyErrorLocation)
}

// Refresh reloads the place of the current snapshot. It does nothing when no
// snapshot is loaded or another load is in flight, and a refresh overtaken
// by a user load is not an error.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	current := c.state.Weather
	if current == nil || c.state.Loading {
		c.mu.Unlock()
		return nil
	}
	c.loadSeq++
	seq := c.loadSeq
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	_, err := c.finishLoad(ctx, seq, current.Coordinate(), current.Location.City, current.Location.Approximate)
	if errors.Is(err, ErrStale) {
		log.Debug().Str("city", current.Location.City).Msg("refresh superseded by a user load")
		return nil
	}
	return err
}

// AskAI requests a suggestion for the loaded snapshot.
func (c *Controller) AskAI(ctx context.Context, style suggest.Style) (suggest.Suggestion, error) {
	c.mu.Lock()
	current := c.state.Weather
	lang := c.state.Language
	c.mu.Unlock()
	if current == nil {
		return suggest.Suggestion{}, ErrNoWeather
	}

	out, err := c.suggester.Suggest(ctx, *current, style, lang)
	if err != nil {
		return suggest.Suggestion{}, err
	}

	c.mu.Lock()
	c.state.Suggestion = &out
	c.mu.Unlock()
	return out, nil
}

// beginLoad issues a load sequence number, resets the search panel and makes
// any in-flight search stale.
func (c *Controller) beginLoad() (uint64, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadSeq++
	c.state.Loading = true
	c.state.Error = ""
	if c.timer != nil {
		c.timer.Stop()
	}
	c.searchSeq++
	c.state.Query = ""
	c.state.Results = nil
	c.state.Searching = false
	c.state.Notice = ""
	return c.loadSeq, c.state.Language
}

func (c *Controller) finishLoad(ctx context.Context, seq uint64, coord weather.Coordinate, city string, approximate bool) (weather.ForecastSnapshot, error) {
	snapshot, fetchErr := c.forecasts.Fetch(ctx, coord, city, approximate)

	var (
		cached    weather.ForecastSnapshot
		cacheErr  error
		haveCache bool
	)
	if fetchErr != nil {
		cached, cacheErr = c.forecasts.Latest()
		haveCache = cacheErr == nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		log.Debug().Str("city", city).Msg("discarding stale weather response")
		return weather.ForecastSnapshot{}, ErrStale
	}
	c.state.Loading = false

	if fetchErr != nil {
		log.Error().Err(fetchErr).Str("city", city).Bool("cached", haveCache).Msg("weather load failed")
		c.state.Error = c.tr.T(c.state.Language, i18n.KeyErrorWeather)
		if haveCache {
			c.state.Weather = &cached
		} else {
			c.state.Weather = nil
		}
		return weather.ForecastSnapshot{}, fetchErr
	}

	// Only the winning response becomes the last forecast.
	c.forecasts.Store(snapshot)
	c.state.Weather = &snapshot
	c.state.Suggestion = nil
	return snapshot, nil
}
