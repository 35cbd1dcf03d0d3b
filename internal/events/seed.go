package events

import (
	"fmt"
	"strings"
	"time"

	"shoresquad/internal/config"
	"shoresquad/internal/model"
)

const dateLayout = "2006-01-02"

// SampleEvents returns the built-in cleanup events, dated in loc.
func SampleEvents(loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return []model.Event{
		{
			ID:           1,
			Name:         "Pasir Ris Beach Cleanup",
			Date:         day(2025, time.December, 15),
			Time:         "08:00 AM",
			Location:     "Pasir Ris Beach, Singapore",
			Participants: 24,
			Description:  "Join us for a morning cleanup at Pasir Ris Beach",
			Latitude:     1.381497,
			Longitude:    103.955574,
		},
		{
			ID:           2,
			Name:         "East Coast Beach Restoration",
			Date:         day(2025, time.December, 20),
			Time:         "10:00 AM",
			Location:     "East Coast, Singapore",
			Participants: 18,
			Description:  "Help restore the beautiful East Coast Beach",
			Latitude:     1.3030,
			Longitude:    103.9127,
		},
		{
			ID:           3,
			Name:         "Sentosa Beach Impact Day",
			Date:         day(2025, time.December, 22),
			Time:         "09:00 AM",
			Location:     "Sentosa Beach",
			Participants: 32,
			Description:  "Large-scale cleanup event for year-end impact",
			Latitude:     1.2498,
			Longitude:    103.8278,
		},
	}
}

// FromConfig converts configured seed events. An empty list means "use
// the samples" and is handled by Seed.
func FromConfig(list []config.EventConfig, loc *time.Location) ([]model.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	out := make([]model.Event, 0, len(list))
	for _, ec := range list {
		date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(ec.Date), loc)
		if err != nil {
			return nil, fmt.Errorf("events: id %d: invalid date %q: %w", ec.ID, ec.Date, err)
		}
		ev := model.Event{
			ID:           ec.ID,
			Name:         ec.Name,
			Date:         date,
			Time:         ec.Time,
			Location:     ec.Location,
			Participants: ec.Participants,
			Description:  ec.Description,
			Latitude:     ec.Latitude,
			Longitude:    ec.Longitude,
			Recurrence:   strings.TrimSpace(ec.Recurrence),
		}
		if ev.Recurrence != "" {
			if _, err := parseRule(ev); err != nil {
				return nil, fmt.Errorf("events: id %d: %w", ec.ID, err)
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

// Seed picks configured events when present, otherwise the samples.
func Seed(list []config.EventConfig, loc *time.Location) ([]model.Event, error) {
	if len(list) == 0 {
		return SampleEvents(loc), nil
	}
	return FromConfig(list, loc)
}
