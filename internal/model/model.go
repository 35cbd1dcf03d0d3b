package model

import "time"

// WeatherSnapshot is a point-in-time reading of current conditions.
// A new snapshot replaces the previous one; nothing is merged.
type WeatherSnapshot struct {
	TemperatureC  float64   `json:"temperature_c"`
	WindKmh       float64   `json:"wind_kmh"`
	HumidityPct   float64   `json:"humidity_pct"`
	ConditionCode int       `json:"condition_code"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// ForecastDay is one future calendar day of the daily series.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	MaxTempC      float64   `json:"max_temp_c"`
	MinTempC      float64   `json:"min_temp_c"`
	ConditionCode int       `json:"condition_code"`
}

// Event represents a beach-cleanup event. Identity is ID; only
// Participants changes after seeding.
type Event struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"` // display time, e.g. "08:00 AM"
	Location     string    `json:"location"`
	Participants int       `json:"participants"`
	Description  string    `json:"description"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`

	// Recurrence is an optional RRULE body (e.g. "FREQ=MONTHLY;BYDAY=2SA")
	// for cleanups that repeat from Date.
	Recurrence string `json:"recurrence,omitempty"`
}

// CurrentView holds the four display strings of the current-conditions panel.
type CurrentView struct {
	Temperature string `json:"temperature"`
	Wind        string `json:"wind"`
	Humidity    string `json:"humidity"`
	Condition   string `json:"condition"`
}

// ForecastCard is the view model of a single forecast day.
type ForecastCard struct {
	Date      string `json:"date"`
	Emoji     string `json:"emoji"`
	Condition string `json:"condition"`
	MaxTemp   string `json:"max_temp"`
	MinTemp   string `json:"min_temp"`
	Animation string `json:"animation"`
}

// EventCard is the view model of a single event card.
type EventCard struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Header       string   `json:"header"` // "Mon, Dec 15 at 08:00 AM"
	Location     string   `json:"location"`
	Participants string   `json:"participants"` // "24 joining"
	Description  string   `json:"description"`
	NextDates    []string `json:"next_dates,omitempty"`
	JoinPath     string   `json:"join_path"`
	SharePath    string   `json:"share_path"`
	Animation    string   `json:"animation"`
}

// CrewCard is one element of the team grid. The add-member control is
// represented as a card with AddControl set and is always the last one.
type CrewCard struct {
	Name       string `json:"name,omitempty"`
	Position   int    `json:"position"`
	RemovePath string `json:"remove_path,omitempty"`
	AddControl bool   `json:"add_control,omitempty"`
	Animation  string `json:"animation,omitempty"`
}

// ShareResult describes how an event share was delivered.
type ShareResult struct {
	Native bool   `json:"native"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	URL    string `json:"url,omitempty"`
	// Prompt is set when the local fallback was used.
	Prompt string `json:"prompt,omitempty"`
}
