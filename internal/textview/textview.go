// Package textview renders the page surface as plain, column-aligned text
// for terminals.
package textview

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"shoresquad/internal/surface"
	"shoresquad/internal/weather"
)

// MaxCellWidth caps a single column; longer cells are truncated.
const MaxCellWidth = 40

// Render writes the current conditions, forecast, events and crew.
func Render(w io.Writer, snap surface.Snapshot, crew []string) error {
	var b strings.Builder

	b.WriteString("🌊 ShoreSquad\n\n")

	b.WriteString("Current conditions\n")
	writeTable(&b, [][]string{
		{"Temperature", snap.Slot(weather.SlotTemperature)},
		{"Wind", snap.Slot(weather.SlotWind)},
		{"Humidity", snap.Slot(weather.SlotHumidity)},
		{"Conditions", snap.Slot(weather.SlotCondition)},
	})

	b.WriteString("\nForecast\n")
	if snap.ForecastMessage != "" {
		b.WriteString("  " + snap.ForecastMessage + "\n")
	}
	if len(snap.Forecast) > 0 {
		rows := make([][]string, 0, len(snap.Forecast))
		for _, c := range snap.Forecast {
			rows = append(rows, []string{c.Date, c.Emoji, c.Condition, c.MaxTemp + " / " + c.MinTemp})
		}
		writeTable(&b, rows)
	}

	b.WriteString("\nUpcoming cleanups\n")
	if len(snap.Events) == 0 {
		b.WriteString("  (none)\n")
	} else {
		rows := make([][]string, 0, len(snap.Events))
		for _, e := range snap.Events {
			rows = append(rows, []string{e.Header, e.Name, e.Location, e.Participants})
		}
		writeTable(&b, rows)
	}

	b.WriteString("\nCrew\n")
	rows := make([][]string, 0, len(crew))
	for i, name := range crew {
		role := "member"
		if i == 0 {
			role = "lead"
		}
		rows = append(rows, []string{name, role})
	}
	writeTable(&b, rows)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeTable pads every column to its widest cell by display width, so
// CJK names and emoji line up in a terminal.
func writeTable(b *strings.Builder, rows [][]string) {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], min(runewidth.StringWidth(cell), MaxCellWidth))
		}
	}

	for _, r := range rows {
		b.WriteString("  ")
		for i, cell := range r {
			cell = runewidth.Truncate(cell, MaxCellWidth, "…")
			if i == len(r)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
}
