package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/i18n"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const envPrefix = "DASHBOARD"

type AppConfig struct {
	GeminiAPIKey string
	GeminiModel  string

	// HTTPTimeout bounds each outbound call; zero leaves it to the transport.
	HTTPTimeout time.Duration
	// HTTPMaxRetries is how many times a failed call is retried.
	HTTPMaxRetries int

	// CachePath is the SQLite file; empty keeps the cache in memory.
	CachePath string

	// RefreshInterval controls how often the loaded place is refetched.
	RefreshInterval time.Duration

	// Home is shown when nothing is cached.
	Home weather.Place

	Language string
	Port     string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from .env, environment and an optional
// config.yaml, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file loaded")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*AppConfig, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.weather-dashboard")

	v.SetDefault("gemini.apikey", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("http.maxretries", 0)
	v.SetDefault("cache.path", "weather-dashboard.db")
	v.SetDefault("refresh.interval", "15m")
	v.SetDefault("location.latitude", 51.5074)
	v.SetDefault("location.longitude", -0.1278)
	v.SetDefault("location.name", "London")
	v.SetDefault("location.country", "United Kingdom")
	v.SetDefault("language", i18n.English)
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// DASHBOARD_HTTP_TIMEOUT overrides http.timeout and so on. The
	// credential and port keep their conventional unprefixed names.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	bindings := map[string][]string{
		"gemini.apikey": {"GEMINI_API_KEY", "API_KEY"},
		"port":          {"PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &AppConfig{
		GeminiAPIKey: v.GetString("gemini.apikey"),
		GeminiModel:  v.GetString("gemini.model"),
		CachePath:    strings.TrimSpace(v.GetString("cache.path")),
		Language:     v.GetString("language"),
		Port:         v.GetString("port"),
		LogLevel:     v.GetString("log.level"),
		LogFormat:    v.GetString("log.format"),
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "http.timeout"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = duration(v, "refresh.interval"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("refresh.interval must be positive, got %s", cfg.RefreshInterval)
	}

	if cfg.HTTPMaxRetries, err = strconv.Atoi(v.GetString("http.maxretries")); err != nil || cfg.HTTPMaxRetries < 0 {
		return nil, fmt.Errorf("invalid http.maxretries %q", v.GetString("http.maxretries"))
	}

	if !i18n.Supported(cfg.Language) {
		return nil, fmt.Errorf("unsupported language %q", cfg.Language)
	}

	home, err := loadHome(v)
	if err != nil {
		return nil, err
	}
	cfg.Home = home

	return cfg, nil
}

func loadHome(v *viper.Viper) (weather.Place, error) {
	lat, err := strconv.ParseFloat(v.GetString("location.latitude"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return weather.Place{}, fmt.Errorf("invalid location.latitude %q", v.GetString("location.latitude"))
	}
	lon, err := strconv.ParseFloat(v.GetString("location.longitude"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return weather.Place{}, fmt.Errorf("invalid location.longitude %q", v.GetString("location.longitude"))
	}

	return weather.Place{
		Name:       v.GetString("location.name"),
		Country:    v.GetString("location.country"),
		Coordinate: weather.Coordinate{Latitude: lat, Longitude: lon},
	}, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
