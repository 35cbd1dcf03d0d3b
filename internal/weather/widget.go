package weather

import (
	"context"
	"sync"
	"time"

	appLog "shoresquad/internal/log"
	"shoresquad/internal/model"
)

// Fetcher is implemented by Client; tests substitute their own.
type Fetcher interface {
	FetchForecast(ctx context.Context) (model.WeatherSnapshot, []model.ForecastDay, error)
}

// Status is the widget state exposed to the API and debug endpoints.
type Status struct {
	Snapshot  *model.WeatherSnapshot `json:"snapshot"`
	Forecast  []model.ForecastDay    `json:"forecast"`
	LastError string                 `json:"last_error,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
	Attempts  int64                  `json:"attempts"`
}

// Widget runs the fetch -> render pipeline. Refreshes are independent of
// each other; whichever finishes last overwrites the state.
type Widget struct {
	fetcher Fetcher
	display Display

	mu     sync.RWMutex
	status Status
}

func NewWidget(f Fetcher, d Display) *Widget {
	return &Widget{fetcher: f, display: d}
}

// Refresh performs one fetch attempt and renders either the data or the
// error state, never both. The fetch error is returned for logging only.
func (w *Widget) Refresh(ctx context.Context) error {
	snap, days, err := w.fetcher.FetchForecast(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.status.Attempts++
	w.status.UpdatedAt = time.Now()

	if err != nil {
		appLog.Error("weather fetch failed", err)
		w.status.LastError = err.Error()
		RenderError(w.display)
		return err
	}

	w.status.Snapshot = &snap
	w.status.LastError = ""
	RenderCurrent(w.display, snap)
	if days != nil {
		w.status.Forecast = days
		RenderForecast(w.display, days)
	}
	appLog.Info("weather updated",
		"temperature_c", snap.TemperatureC,
		"condition", Describe(snap.ConditionCode),
		"forecast_days", len(days),
	)
	return nil
}

// Status returns a copy of the current widget state.
func (w *Widget) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st := w.status
	if st.Snapshot != nil {
		s := *st.Snapshot
		st.Snapshot = &s
	}
	st.Forecast = append([]model.ForecastDay(nil), st.Forecast...)
	return st
}
