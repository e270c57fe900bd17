package dashboard

import (
	"fmt"
	"slices"

	"github.com/i474232898/weather-dashboard/internal/suggest"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// State is everything a dashboard view renders. Copies handed out by
// Controller.Snapshot share no memory with the controller.
type State struct {
	Language   string                    `json:"language"`
	Theme      Theme                     `json:"theme"`
	Query      string                    `json:"query"`
	Results    []weather.Place           `json:"results"`
	Searching  bool                      `json:"searching"`
	Notice     string                    `json:"notice,omitempty"`
	Weather    *weather.ForecastSnapshot `json:"weather,omitempty"`
	Loading    bool                      `json:"loading"`
	Error      string                    `json:"error,omitempty"`
	Offline    bool                      `json:"offline"`
	Suggestion *suggest.Suggestion       `json:"suggestion,omitempty"`
}

func (s State) clone() State {
	out := s
	out.Results = slices.Clone(s.Results)
	if s.Weather != nil {
		w := *s.Weather
		w.Hourly = slices.Clone(w.Hourly)
		w.Daily = slices.Clone(w.Daily)
		out.Weather = &w
	}
	if s.Suggestion != nil {
		sg := *s.Suggestion
		out.Suggestion = &sg
	}
	return out
}
