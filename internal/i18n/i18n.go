// Package i18n holds the user-visible message catalog.
package i18n

import (
	"fmt"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Supported languages.
const (
	English = "en"
	French  = "fr"
	Arabic  = "ar"
)

// Message keys.
const (
	KeyNear            = "near"
	KeyUnknownLocation = "unknown_location"
	KeyErrorWeather    = "error_weather"
	KeyErrorLocation   = "error_location"
	KeyOffline         = "offline"
	KeyNoResults       = "no_results"
)

var catalog = map[string]map[string]string{
	English: {
		KeyNear:            "Near",
		KeyUnknownLocation: "Unknown location",
		KeyErrorWeather:    "Failed to load weather data.",
		KeyErrorLocation:   "Unable to retrieve your location.",
		KeyOffline:         "You are viewing cached data.",
		KeyNoResults:       "No results found",

		string(weather.ConditionClear):        "Clear sky",
		string(weather.ConditionPartlyCloudy): "Partly cloudy",
		string(weather.ConditionOvercast):     "Overcast",
		string(weather.ConditionFog):          "Fog",
		string(weather.ConditionDrizzle):      "Light drizzle",
		string(weather.ConditionRain):         "Rain",
		string(weather.ConditionSnow):         "Snow",
		string(weather.ConditionThunderstorm): "Thunderstorm",
	},
	French: {
		KeyNear:            "Près de",
		KeyUnknownLocation: "Lieu inconnu",
		KeyErrorWeather:    "Impossible de charger la météo.",
		KeyErrorLocation:   "Impossible de récupérer votre position.",
		KeyOffline:         "Vous consultez des données en cache.",
		KeyNoResults:       "Aucun résultat",

		string(weather.ConditionClear):        "Ciel dégagé",
		string(weather.ConditionPartlyCloudy): "Partiellement nuageux",
		string(weather.ConditionOvercast):     "Couvert",
		string(weather.ConditionFog):          "Brouillard",
		string(weather.ConditionDrizzle):      "Bruine légère",
		string(weather.ConditionRain):         "Pluie",
		string(weather.ConditionSnow):         "Neige",
		string(weather.ConditionThunderstorm): "Orage",
	},
	Arabic: {
		KeyNear:            "بالقرب من",
		KeyUnknownLocation: "موقع غير معروف",
		KeyErrorWeather:    "فشل تحميل بيانات الطقس.",
		KeyErrorLocation:   "تعذر تحديد موقعك.",
		KeyOffline:         "أنت تعرض بيانات مخزنة.",
		KeyNoResults:       "لا توجد نتائج",

		string(weather.ConditionClear):        "سماء صافية",
		string(weather.ConditionPartlyCloudy): "غائم جزئياً",
		string(weather.ConditionOvercast):     "غائم",
		string(weather.ConditionFog):          "ضباب",
		string(weather.ConditionDrizzle):      "رذاذ خفيف",
		string(weather.ConditionRain):         "مطر",
		string(weather.ConditionSnow):         "ثلج",
		string(weather.ConditionThunderstorm): "عاصفة رعدية",
	},
}

// Translator resolves message keys per language, falling back to English.
type Translator struct {
	uni *ut.UniversalTranslator
}

// New loads the catalog into a universal translator.
func New() (*Translator, error) {
	uni := ut.New(en.New(), en.New(), fr.New(), ar.New())

	for lang, messages := range catalog {
		trans, found := uni.GetTranslator(lang)
		if !found {
			return nil, fmt.Errorf("no locale for %q", lang)
		}
		for key, text := range messages {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("add %s/%s: %w", lang, key, err)
			}
		}
	}

	return &Translator{uni: uni}, nil
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// T returns the message for key in lang. Unknown languages use English and
// unknown keys are returned as-is.
func (t *Translator) T(lang, key string) string {
	trans, found := t.uni.GetTranslator(lang)
	if !found || !Supported(lang) {
		trans = t.uni.GetFallback()
	}

	text, err := trans.T(key)
	if err != nil {
		return key
	}
	return text
}

// Condition returns the display text for a condition key.
func (t *Translator) Condition(lang string, c weather.Condition) string {
	return t.T(lang, string(c))
}
