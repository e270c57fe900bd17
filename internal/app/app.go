// Package app assembles the dashboard from configuration.
package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/i18n"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/suggest"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// App holds the wired components.
type App struct {
	Cache      *store.Cache
	Resolver   *geocode.Resolver
	Weather    *weather.Service
	Suggest    *suggest.Service
	Translator *i18n.Translator
	Controller *dashboard.Controller
}

// New builds every component from cfg. Close releases the cache.
func New(cfg *config.AppConfig) (*App, error) {
	kv, err := openKV(cfg.CachePath)
	if err != nil {
		return nil, err
	}
	cache := store.NewCache(kv)

	tr, err := i18n.New()
	if err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("load messages: %w", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.DefaultHTTPConfig(&http.Client{Timeout: cfg.HTTPTimeout})
	httpCfg.Backoff.MaxRetries = cfg.HTTPMaxRetries

	geocoder := providers.NewOpenMeteoGeocoder(httpCfg)
	resolver := geocode.NewResolver(geocoder, geocoder, providers.NewBigDataCloudGeocoder(httpCfg), cache)

	forecasts := weather.NewService(providers.NewOpenMeteoProvider(httpCfg), cache)

	gemini := providers.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.HTTPTimeout)
	if !gemini.Configured() {
		log.Info().Msg("no generative API key configured; suggestions run in demo mode")
	}
	suggester := suggest.NewService(gemini, tr.Condition)

	ctrl := dashboard.NewController(resolver, forecasts, suggester, tr, dashboard.Options{
		Home:     cfg.Home,
		Language: cfg.Language,
	})

	return &App{
		Cache:      cache,
		Resolver:   resolver,
		Weather:    forecasts,
		Suggest:    suggester,
		Translator: tr,
		Controller: ctrl,
	}, nil
}

// Close releases the cache backend.
func (a *App) Close() error {
	return a.Cache.Close()
}

func openKV(path string) (store.KV, error) {
	if path == "" {
		log.Info().Msg("cache path empty; using in-memory cache")
		return store.NewMemoryStore(), nil
	}

	kv, err := store.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("cache opened")
	return kv, nil
}
