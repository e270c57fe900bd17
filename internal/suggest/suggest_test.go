package suggest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type MockGenerator struct {
	mock.Mock
	configured bool
}

func (m *MockGenerator) Configured() bool { return m.configured }

func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	args := m.Called(ctx, prompt, schema)
	return args.String(0), args.Error(1)
}

func snapshot() weather.ForecastSnapshot {
	return weather.ForecastSnapshot{
		Current: weather.Current{
			Temperature: 18.5,
			FeelsLike:   17,
			WindSpeed:   12.3,
			Description: weather.ConditionOvercast,
		},
		Daily:       []weather.DailyPoint{{PrecipitationProbability: 40}},
		Location:    weather.SnapshotLocation{City: "Paris, France"},
		LastUpdated: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSuggest_PlaceholderWhenUnconfigured(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{name: "nil generator", gen: nil},
		{name: "generator without key", gen: &MockGenerator{configured: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewService(tt.gen, nil).Suggest(context.Background(), snapshot(), StyleCasual, "en")
			require.NoError(t, err)
			assert.Equal(t, Placeholder, got)
		})
	}
}

func TestSuggest_Reply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		genErr  error
		want    Suggestion
		wantErr error
	}{
		{
			name:  "well formed",
			reply: `{"outfit":"Trench coat","activities":"Visit the Louvre","summary":"Cloudy and mild."}`,
			want:  Suggestion{Outfit: "Trench coat", Activities: "Visit the Louvre", Summary: "Cloudy and mild."},
		},
		{
			name:    "empty reply",
			reply:   "  ",
			wantErr: ErrEmptyReply,
		},
		{
			name:    "not json",
			reply:   "Wear a coat.",
			wantErr: ErrMalformedReply,
		},
		{
			name:    "missing field",
			reply:   `{"outfit":"Coat","summary":"Mild."}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "null field",
			reply:   `{"outfit":null,"activities":"walk","summary":"ok"}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "wrong field type",
			reply:   `{"outfit":"Coat","activities":["a","b"],"summary":"Mild."}`,
			wantErr: ErrMalformedReply,
		},
		{
			name:    "transport failure",
			genErr:  assert.AnError,
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockGenerator{configured: true}
			gen.On("GenerateJSON", mock.Anything, mock.AnythingOfType("string"), Schema()).Return(tt.reply, tt.genErr)

			got, err := NewService(gen, nil).Suggest(context.Background(), snapshot(), StyleBusiness, "fr")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			gen.AssertExpectations(t)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	describe := func(lang string, c weather.Condition) string {
		return lang + ":" + string(c)
	}

	prompt := BuildPrompt(snapshot(), StyleSport, "ar", describe)

	for _, want := range []string{
		"The current weather in Paris, France is:",
		"- Temperature: 18.5°C",
		"- Feels Like: 17°C",
		"- Condition: ar:overcast",
		"- Wind: 12.3 km/h",
		"- Chance of rain: 40%",
		"User preference style: Sport.",
		"Language: ar.",
	} {
		assert.Contains(t, prompt, want)
	}

	noDaily := snapshot()
	noDaily.Daily = nil
	assert.Contains(t, BuildPrompt(noDaily, StyleSport, "en", describe), "- Chance of rain: 0%")
}

func TestParseStyle(t *testing.T) {
	st, err := ParseStyle("sport")
	require.NoError(t, err)
	assert.Equal(t, StyleSport, st)

	_, err = ParseStyle("Formal")
	assert.ErrorIs(t, err, ErrUnknownStyle)
}
