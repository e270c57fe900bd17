package weather

// Conditions lists every description key DescriptionKey can return.
var Conditions = []Condition{
	ConditionClear,
	ConditionPartlyCloudy,
	ConditionOvercast,
	ConditionFog,
	ConditionDrizzle,
	ConditionRain,
	ConditionSnow,
	ConditionThunderstorm,
}

// DescriptionKey maps a WMO weather code to its description key.
// Unmatched codes fall back to partly cloudy.
func DescriptionKey(code int) Condition {
	switch {
	case code == 0 || code == 1:
		return ConditionClear
	case code == 2:
		return ConditionPartlyCloudy
	case code == 3:
		return ConditionOvercast
	case code == 45 || code == 48:
		return ConditionFog
	case code >= 51 && code <= 55:
		return ConditionDrizzle
	case code >= 56 && code <= 67:
		return ConditionRain
	case code >= 71 && code <= 77:
		return ConditionSnow
	case code >= 95:
		return ConditionThunderstorm
	default:
		return ConditionPartlyCloudy
	}
}
