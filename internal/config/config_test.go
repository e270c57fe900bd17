package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.HTTPMaxRetries)
	assert.Equal(t, "weather-dashboard.db", cfg.CachePath)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "London, United Kingdom", cfg.Home.Label())
	assert.Equal(t, 51.5074, cfg.Home.Coordinate.Latitude)
	assert.Equal(t, -0.1278, cfg.Home.Coordinate.Longitude)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("DASHBOARD_HTTP_TIMEOUT", "7s")
	t.Setenv("DASHBOARD_HTTP_MAXRETRIES", "2")
	t.Setenv("DASHBOARD_CACHE_PATH", "")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "5m")
	t.Setenv("DASHBOARD_LOCATION_LATITUDE", "48.8566")
	t.Setenv("DASHBOARD_LOCATION_LONGITUDE", "2.3522")
	t.Setenv("DASHBOARD_LOCATION_NAME", "Paris")
	t.Setenv("DASHBOARD_LOCATION_COUNTRY", "France")
	t.Setenv("DASHBOARD_LANGUAGE", "fr")
	t.Setenv("DASHBOARD_LOG_FORMAT", "json")
	t.Setenv("PORT", "9090")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Equal(t, 7*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.HTTPMaxRetries)
	assert.Equal(t, "", cfg.CachePath)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "Paris, France", cfg.Home.Label())
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadPrefersGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("API_KEY", "legacy")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.GeminiAPIKey)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"DASHBOARD_HTTP_TIMEOUT", "soon"},
		{"DASHBOARD_REFRESH_INTERVAL", "0s"},
		{"DASHBOARD_HTTP_MAXRETRIES", "-1"},
		{"DASHBOARD_LANGUAGE", "de"},
		{"DASHBOARD_LOCATION_LATITUDE", "91"},
		{"DASHBOARD_LOCATION_LONGITUDE", "east"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}
