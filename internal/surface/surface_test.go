package surface

import (
	"testing"

	"shoresquad/internal/model"
)

func TestMissingSlotsAreNoOps(t *testing.T) {
	s := New([]string{"temp"}, []string{ContainerTeam})

	if !s.SetText("temp", "28°C") {
		t.Error("expected write to present slot to succeed")
	}
	if s.SetText("wind", "11 km/h") {
		t.Error("expected write to absent slot to report false")
	}
	if s.ReplaceForecast([]model.ForecastCard{{Date: "Mon, Dec 15"}}, "") {
		t.Error("expected write to absent forecast container to report false")
	}
	if s.ReplaceEvents([]model.EventCard{{ID: 1}}) {
		t.Error("expected write to absent events container to report false")
	}

	snap := s.Snapshot()
	if snap.Slot("temp") != "28°C" {
		t.Errorf("temp = %q", snap.Slot("temp"))
	}
	if snap.HasSlot("wind") || snap.HasForecast || snap.HasEvents {
		t.Errorf("unexpected slots/containers in snapshot: %+v", snap)
	}
	if !snap.HasTeam {
		t.Error("expected team container")
	}
	if snap.Version != 1 {
		t.Errorf("version = %d, want 1", snap.Version)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New([]string{"temp"}, []string{ContainerForecast})
	s.ReplaceForecast([]model.ForecastCard{{Date: "a"}}, "")

	snap := s.Snapshot()
	snap.Forecast[0].Date = "mutated"
	snap.Slots["temp"] = "mutated"

	again := s.Snapshot()
	if again.Forecast[0].Date != "a" || again.Slot("temp") != "" {
		t.Errorf("snapshot mutation leaked into surface: %+v", again)
	}
}
