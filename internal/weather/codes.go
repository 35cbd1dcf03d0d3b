package weather

import "slices"

// Labels for WMO weather codes. Codes missing from this table are "Unknown".
var descriptions = map[int]string{
	0:  "Clear",
	1:  "Partly Cloudy",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Foggy",
	51: "Light Drizzle",
	53: "Moderate Drizzle",
	55: "Heavy Drizzle",
	61: "Slight Rain",
	63: "Moderate Rain",
	65: "Heavy Rain",
	71: "Slight Snow",
	73: "Moderate Snow",
	75: "Heavy Snow",
	80: "Slight Showers",
	81: "Moderate Showers",
	82: "Heavy Showers",
	85: "Slight Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm",
	96: "Thunderstorm with Hail",
	99: "Thunderstorm with Hail",
}

// UnknownCondition is returned by Describe for codes outside the table.
const UnknownCondition = "Unknown"

// Describe returns the human-readable label for a WMO weather code.
func Describe(code int) string {
	if label, ok := descriptions[code]; ok {
		return label
	}
	return UnknownCondition
}

const (
	EmojiClear        = "☀️"
	EmojiPartlyCloudy = "⛅"
	EmojiFog          = "🌫️"
	EmojiRain         = "🌧️"
	EmojiSnow         = "❄️"
	EmojiThunder      = "⛈️"
	EmojiMild         = "🌤️"
)

type emojiRule struct {
	match func(code int) bool
	emoji string
}

func oneOf(codes ...int) func(int) bool {
	return func(code int) bool { return slices.Contains(codes, code) }
}

// emojiRules are evaluated in order; the first match wins.
var emojiRules = []emojiRule{
	{match: func(c int) bool { return c == 0 }, emoji: EmojiClear},
	{match: func(c int) bool { return c >= 1 && c <= 3 }, emoji: EmojiPartlyCloudy},
	{match: oneOf(45, 48), emoji: EmojiFog},
	{match: oneOf(51, 53, 55, 80, 81, 82), emoji: EmojiRain},
	{match: oneOf(61, 63, 65), emoji: EmojiRain},
	{match: oneOf(71, 73, 75, 85, 86), emoji: EmojiSnow},
	{match: oneOf(95, 96, 99), emoji: EmojiThunder},
}

// Emoji returns a pictogram for a WMO weather code. Codes matching no rule
// get the generic mild-weather glyph.
func Emoji(code int) string {
	for _, r := range emojiRules {
		if r.match(code) {
			return r.emoji
		}
	}
	return EmojiMild
}
