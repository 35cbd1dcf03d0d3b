package weather

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"shoresquad/internal/model"
	"shoresquad/internal/surface"
)

func fullSurface() *surface.Surface {
	return surface.New(
		[]string{SlotTemperature, SlotWind, SlotHumidity, SlotCondition},
		[]string{surface.ContainerForecast},
	)
}

func TestWidget_RendersCurrentConditions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":27.6,"wind_speed_10m":11.2,"relative_humidity_2m":80,"weather_code":3}}`))
	})
	s := fullSurface()
	w := NewWidget(c, s)

	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	snap := s.Snapshot()
	want := map[string]string{
		SlotTemperature: "28°C",
		SlotWind:        "11 km/h",
		SlotHumidity:    "80%",
		SlotCondition:   "Overcast",
	}
	for slot, text := range want {
		if got := snap.Slot(slot); got != text {
			t.Errorf("slot %s = %q, want %q", slot, got, text)
		}
	}

	st := w.Status()
	if st.Snapshot == nil || st.Snapshot.ConditionCode != 3 {
		t.Errorf("status snapshot not stored: %+v", st)
	}
}

func TestWidget_HTTPErrorRendersErrorState(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	s := fullSurface()
	w := NewWidget(c, s)

	err := w.Refresh(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}

	snap := s.Snapshot()
	for _, slot := range []string{SlotTemperature, SlotWind, SlotHumidity, SlotCondition} {
		if got := snap.Slot(slot); got != ErrorText {
			t.Errorf("slot %s = %q, want %q", slot, got, ErrorText)
		}
	}
	if len(snap.Forecast) != 0 || snap.ForecastMessage != ForecastErrorMsg {
		t.Errorf("forecast container = %v / %q", snap.Forecast, snap.ForecastMessage)
	}
	if w.Status().LastError == "" {
		t.Error("expected last error to be recorded")
	}
}

func TestWidget_ForecastCards(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fiveDayPayload))
	})
	s := fullSurface()
	if err := NewWidget(c, s).Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	cards := s.Snapshot().Forecast
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	first := cards[0]
	if first.Date != "Mon, Dec 15" || first.Emoji != EmojiRain || first.Condition != "Slight Rain" {
		t.Errorf("unexpected first card: %+v", first)
	}
	if first.MaxTemp != "31°" || first.MinTemp != "25°" {
		t.Errorf("unexpected temps: %+v", first)
	}
	if first.Animation != FadeIn {
		t.Errorf("expected entrance animation, got %q", first.Animation)
	}
	if cards[1].Emoji != EmojiThunder || cards[3].Emoji != EmojiFog {
		t.Errorf("unexpected emojis: %q %q", cards[1].Emoji, cards[3].Emoji)
	}
}

func TestWidget_ToleratesMissingSlots(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fiveDayPayload))
	})
	s := surface.New([]string{SlotTemperature}, nil)
	if err := NewWidget(c, s).Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := s.Snapshot().Slot(SlotTemperature); got != "28°C" {
		t.Errorf("temp = %q", got)
	}
}

type stubFetcher struct {
	snap model.WeatherSnapshot
	days []model.ForecastDay
	err  error
}

func (f stubFetcher) FetchForecast(context.Context) (model.WeatherSnapshot, []model.ForecastDay, error) {
	return f.snap, f.days, f.err
}

func TestWidget_LastWriteWins(t *testing.T) {
	s := fullSurface()
	day := model.ForecastDay{Date: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), MaxTempC: 30, MinTempC: 24}

	first := NewWidget(stubFetcher{snap: model.WeatherSnapshot{TemperatureC: 20}, days: []model.ForecastDay{day}}, s)
	if err := first.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := NewWidget(stubFetcher{snap: model.WeatherSnapshot{TemperatureC: 30.4}}, s)
	if err := second.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.Slot(SlotTemperature) != "30°C" {
		t.Errorf("temp = %q, want overwritten value", snap.Slot(SlotTemperature))
	}
	// The second response had no daily object, so the forecast is untouched.
	if len(snap.Forecast) != 1 {
		t.Errorf("forecast = %v", snap.Forecast)
	}
}
