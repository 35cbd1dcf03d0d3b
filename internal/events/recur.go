package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"shoresquad/internal/model"
)

// defaultDuration is used for calendar entries; events only carry a start.
const defaultDuration = 2 * time.Hour

// StartTime combines the event date with its display time ("08:00 AM").
// Unparseable times fall back to 09:00 local.
func StartTime(ev model.Event) time.Time {
	d := ev.Date
	t, err := time.Parse("03:04 PM", strings.TrimSpace(ev.Time))
	if err != nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, d.Location())
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location())
}

func parseRule(ev model.Event) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(ev.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence %q: %w", ev.Recurrence, err)
	}
	r.DTStart(StartTime(ev))
	return r, nil
}

// NextOccurrences returns up to n start times at or after from. Events
// without a recurrence rule have at most one occurrence.
func NextOccurrences(ev model.Event, from time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, nil
	}
	if ev.Recurrence == "" {
		start := StartTime(ev)
		if start.Before(from) {
			return nil, nil
		}
		return []time.Time{start}, nil
	}

	r, err := parseRule(ev)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, n)
	next := r.After(from, true)
	for !next.IsZero() && len(out) < n {
		out = append(out, next)
		next = r.After(next, false)
	}
	return out, nil
}
