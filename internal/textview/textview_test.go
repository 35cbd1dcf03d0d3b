package textview

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"shoresquad/internal/model"
	"shoresquad/internal/surface"
	"shoresquad/internal/weather"
)

func TestWriteTableAlignsByDisplayWidth(t *testing.T) {
	var b strings.Builder
	writeTable(&b, [][]string{
		{"김철수", "member"},
		{"Sam", "member"},
	})

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	col := func(line string) int {
		return runewidth.StringWidth(line[:strings.Index(line, "member")])
	}
	if col(lines[0]) != col(lines[1]) {
		t.Errorf("second column misaligned:\n%s", b.String())
	}
}

func TestWriteTableTruncatesLongCells(t *testing.T) {
	var b strings.Builder
	writeTable(&b, [][]string{{strings.Repeat("x", 100), "end"}})

	line := strings.TrimRight(b.String(), "\n")
	if w := runewidth.StringWidth(line); w > MaxCellWidth+2+2+len("end") {
		t.Errorf("line width = %d, expected truncation", w)
	}
	if !strings.Contains(line, "…") {
		t.Errorf("missing ellipsis: %q", line)
	}
}

func TestRender(t *testing.T) {
	s := surface.New(
		[]string{weather.SlotTemperature, weather.SlotWind, weather.SlotHumidity, weather.SlotCondition},
		[]string{surface.ContainerForecast, surface.ContainerEvents, surface.ContainerTeam},
	)
	s.SetText(weather.SlotTemperature, "28°C")
	s.SetText(weather.SlotWind, "11 km/h")
	s.SetText(weather.SlotHumidity, "80%")
	s.SetText(weather.SlotCondition, "Overcast")
	s.ReplaceForecast([]model.ForecastCard{{Date: "Mon, Dec 15", Emoji: "🌧️", Condition: "Slight Rain", MaxTemp: "31°", MinTemp: "25°"}}, "")
	s.ReplaceEvents([]model.EventCard{{Name: "Pasir Ris Beach Cleanup", Header: "Mon, Dec 15 at 08:00 AM", Location: "Pasir Ris Park", Participants: "24 joining"}})

	var b strings.Builder
	if err := Render(&b, s.Snapshot(), []string{"You", "Sam"}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"28°C", "11 km/h", "80%", "Overcast", "Mon, Dec 15", "31° / 25°", "Pasir Ris Beach Cleanup", "24 joining", "You", "lead", "Sam"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	s := surface.New(nil, nil)

	var b strings.Builder
	if err := Render(&b, s.Snapshot(), []string{"You"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "(none)") {
		t.Errorf("expected empty events marker:\n%s", b.String())
	}
}
