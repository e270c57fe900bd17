// Package suggest asks a generative-language model for an outfit and
// activity suggestion that fits a forecast.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Style is the user's dress preference.
type Style string

const (
	StyleCasual   Style = "Casual"
	StyleBusiness Style = "Business"
	StyleSport    Style = "Sport"
)

// Styles lists the accepted styles.
var Styles = []Style{StyleCasual, StyleBusiness, StyleSport}

var (
	// ErrEmptyReply is returned when the model answers with no text.
	ErrEmptyReply = errors.New("empty suggestion reply")
	// ErrMalformedReply is returned when the reply is not the requested object.
	ErrMalformedReply = errors.New("malformed suggestion reply")
	// ErrUnknownStyle is returned for a style outside Styles.
	ErrUnknownStyle = errors.New("unknown style")
)

// Suggestion is the model's advice. All fields are free text.
type Suggestion struct {
	Outfit     string `json:"outfit"`
	Activities string `json:"activities"`
	Summary    string `json:"summary"`
}

// Placeholder is returned when no generator credential is configured.
var Placeholder = Suggestion{
	Outfit:     "Demo Mode: Add API_KEY to env. Wear a light jacket.",
	Activities: "Go for a walk.",
	Summary:    "Weather is pleasant.",
}

// Generator produces a JSON document constrained to a schema.
type Generator interface {
	Configured() bool
	GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error)
}

// Describer turns a condition key into display text for a language.
type Describer func(lang string, c weather.Condition) string

// Service builds prompts and parses the model's reply.
type Service struct {
	gen      Generator
	describe Describer
}

// NewService creates a Service. gen may be nil, which behaves like an
// unconfigured generator.
func NewService(gen Generator, describe Describer) *Service {
	if describe == nil {
		describe = func(_ string, c weather.Condition) string { return string(c) }
	}
	return &Service{gen: gen, describe: describe}
}

// Schema is the structured reply requested from the model.
func Schema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"outfit":     map[string]any{"type": "STRING"},
			"activities": map[string]any{"type": "STRING"},
			"summary":    map[string]any{"type": "STRING"},
		},
		"required": []string{"outfit", "activities", "summary"},
	}
}

// ParseStyle matches s case-insensitively against Styles.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// Suggest asks for a suggestion for snapshot. Without a configured generator
// it returns Placeholder and makes no call.
func (s *Service) Suggest(ctx context.Context, snapshot weather.ForecastSnapshot, style Style, lang string) (Suggestion, error) {
	if s.gen == nil || !s.gen.Configured() {
		return Placeholder, nil
	}

	text, err := s.gen.GenerateJSON(ctx, BuildPrompt(snapshot, style, lang, s.describe), Schema())
	if err != nil {
		log.Error().Err(err).Str("city", snapshot.Location.City).Msg("suggestion request failed")
		return Suggestion{}, fmt.Errorf("request suggestion: %w", err)
	}
	return parse(text)
}

// BuildPrompt renders the request text for snapshot.
func BuildPrompt(snapshot weather.ForecastSnapshot, style Style, lang string, describe Describer) string {
	var pop float64
	if len(snapshot.Daily) > 0 {
		pop = snapshot.Daily[0].PrecipitationProbability
	}

	var b strings.Builder
	b.WriteString("You are a helpful style and lifestyle assistant.\n")
	fmt.Fprintf(&b, "The current weather in %s is:\n", snapshot.Location.City)
	fmt.Fprintf(&b, "- Temperature: %g°C\n", snapshot.Current.Temperature)
	fmt.Fprintf(&b, "- Feels Like: %g°C\n", snapshot.Current.FeelsLike)
	fmt.Fprintf(&b, "- Condition: %s\n", describe(lang, snapshot.Current.Description))
	fmt.Fprintf(&b, "- Wind: %g km/h\n", snapshot.Current.WindSpeed)
	fmt.Fprintf(&b, "- Chance of rain: %g%%\n\n", pop)
	fmt.Fprintf(&b, "User preference style: %s.\n", style)
	fmt.Fprintf(&b, "Language: %s.\n\n", lang)
	b.WriteString("Provide a JSON response with:\n")
	b.WriteString("1. outfit: A short outfit suggestion.\n")
	b.WriteString("2. activities: 1-2 recommended activities.\n")
	b.WriteString("3. summary: A very brief weather summary (1 sentence).\n")
	return b.String()
}

func parse(text string) (Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Suggestion{}, ErrEmptyReply
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var out Suggestion
	fields := []struct {
		name string
		dst  *string
	}{
		{"outfit", &out.Outfit},
		{"activities", &out.Activities},
		{"summary", &out.Summary},
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok || string(v) == "null" {
			return Suggestion{}, fmt.Errorf("%w: missing %s", ErrMalformedReply, f.name)
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return Suggestion{}, fmt.Errorf("%w: %s: %v", ErrMalformedReply, f.name, err)
		}
	}
	return out, nil
}
