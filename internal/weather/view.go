package weather

import (
	"math"
	"strconv"

	"shoresquad/internal/model"
)

// Slot names of the current-conditions panel.
const (
	SlotTemperature = "temp"
	SlotWind        = "wind"
	SlotHumidity    = "humidity"
	SlotCondition   = "weather-condition"
)

const (
	ErrorText        = "Error loading"
	ForecastErrorMsg = "Unable to load forecast"
	FadeIn           = "fade-in"
)

// Display is the surface the weather widget writes into. Implementations
// must tolerate writes to slots they do not have.
type Display interface {
	// SetText writes text into a named slot and reports whether the slot exists.
	SetText(slot, text string) bool
	// ReplaceForecast clears the forecast container and fills it with cards,
	// or with message when cards is empty and message is non-empty.
	ReplaceForecast(cards []model.ForecastCard, message string) bool
}

// Round rounds half up to the nearest integer (2.5 -> 3, -2.5 -> -2).
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// CurrentFields shapes a snapshot into the four display strings.
func CurrentFields(s model.WeatherSnapshot) model.CurrentView {
	return model.CurrentView{
		Temperature: strconv.Itoa(Round(s.TemperatureC)) + "°C",
		Wind:        strconv.Itoa(Round(s.WindKmh)) + " km/h",
		Humidity:    strconv.FormatFloat(s.HumidityPct, 'f', -1, 64) + "%",
		Condition:   Describe(s.ConditionCode),
	}
}

// DateLabel formats a calendar date the way cards show it, e.g. "Mon, Dec 15".
func DateLabel(d model.ForecastDay) string {
	return d.Date.Format("Mon, Jan 2")
}

// ForecastCards shapes forecast days into card view models.
func ForecastCards(days []model.ForecastDay) []model.ForecastCard {
	cards := make([]model.ForecastCard, 0, len(days))
	for _, d := range days {
		cards = append(cards, model.ForecastCard{
			Date:      DateLabel(d),
			Emoji:     Emoji(d.ConditionCode),
			Condition: Describe(d.ConditionCode),
			MaxTemp:   strconv.Itoa(Round(d.MaxTempC)) + "°",
			MinTemp:   strconv.Itoa(Round(d.MinTempC)) + "°",
			Animation: FadeIn,
		})
	}
	return cards
}

// RenderCurrent writes the snapshot into the four current-condition slots.
func RenderCurrent(d Display, s model.WeatherSnapshot) {
	v := CurrentFields(s)
	d.SetText(SlotTemperature, v.Temperature)
	d.SetText(SlotWind, v.Wind)
	d.SetText(SlotHumidity, v.Humidity)
	d.SetText(SlotCondition, v.Condition)
}

// RenderForecast replaces the forecast container with one card per day.
func RenderForecast(d Display, days []model.ForecastDay) {
	d.ReplaceForecast(ForecastCards(days), "")
}

// RenderError puts the panel into its error state.
func RenderError(d Display) {
	for _, slot := range []string{SlotTemperature, SlotWind, SlotHumidity, SlotCondition} {
		d.SetText(slot, ErrorText)
	}
	d.ReplaceForecast(nil, ForecastErrorMsg)
}
