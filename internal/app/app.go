// Package app wires the weather widget, event store and crew roster onto
// one display surface and drives their lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"shoresquad/internal/capture"
	"shoresquad/internal/config"
	"shoresquad/internal/crew"
	"shoresquad/internal/events"
	appLog "shoresquad/internal/log"
	"shoresquad/internal/model"
	"shoresquad/internal/pace"
	"shoresquad/internal/surface"
	"shoresquad/internal/weather"
)

const (
	LoadingText        = "Loading..."
	LoadingForecastMsg = "Loading forecast..."

	previewQuietPeriod = 2 * time.Second
)

// App owns all application state. Handlers reach state only through its
// methods.
type App struct {
	cfg *config.Config
	loc *time.Location
	now func() time.Time

	surface *surface.Surface
	weather *weather.Widget
	events  *events.Store
	crew    *crew.Roster

	sched       *cron.Cron
	refresh     *pace.Throttler
	preview     *pace.Debouncer
	previewWait time.Duration
	captureF    func(ctx context.Context) error
}

// Option customizes App construction.
type Option func(*App)

// WithFetcher replaces the HTTP forecast client.
func WithFetcher(f weather.Fetcher) Option {
	return func(a *App) { a.weather = weather.NewWidget(f, a.surface) }
}

// WithClock replaces time.Now for card rendering.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithCapture replaces the preview capture step.
func WithCapture(fn func(ctx context.Context) error) Option {
	return func(a *App) { a.captureF = fn }
}

// WithPreviewDelay sets the quiet period before a preview capture.
func WithPreviewDelay(d time.Duration) Option {
	return func(a *App) { a.previewWait = d }
}

// New builds the application state from config.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
		loc = time.Local
	}

	seed, err := events.Seed(cfg.Events, loc)
	if err != nil {
		return nil, err
	}
	if len(cfg.Feeds) > 0 {
		timeout := time.Duration(cfg.Weather.TimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout*time.Duration(len(cfg.Feeds)))
		seed = append(seed, events.LoadFeeds(ctx, &http.Client{Timeout: timeout}, cfg.Feeds, loc, events.NextID(seed))...)
		cancel()
	}
	store, err := events.NewStore(seed)
	if err != nil {
		return nil, err
	}

	s := surface.New(
		[]string{weather.SlotTemperature, weather.SlotWind, weather.SlotHumidity, weather.SlotCondition},
		[]string{surface.ContainerForecast, surface.ContainerEvents, surface.ContainerTeam},
	)

	a := &App{
		cfg:     cfg,
		loc:     loc,
		now:     time.Now,
		surface: s,
		events:  store,
		crew:    crew.NewRoster(cfg.Crew.Owner),
		refresh: pace.Throttle(time.Duration(cfg.Weather.RefreshCooldownSeconds) * time.Second),

		previewWait: previewQuietPeriod,
	}
	a.weather = weather.NewWidget(weather.NewClient(weather.ClientConfig{
		BaseURL:   cfg.Weather.BaseURL,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
		Timezone:  cfg.Timezone,
		Timeout:   time.Duration(cfg.Weather.TimeoutSeconds) * time.Second,
	}), s)
	a.captureF = a.capturePreview

	for _, opt := range opts {
		opt(a)
	}

	if cfg.Preview.Enabled {
		a.preview = pace.Debounce(a.previewWait, func() {
			if err := a.captureF(context.Background()); err != nil {
				appLog.Error("preview capture failed", err)
			}
		})
	}

	for _, slot := range []string{weather.SlotTemperature, weather.SlotWind, weather.SlotHumidity, weather.SlotCondition} {
		s.SetText(slot, LoadingText)
	}
	s.ReplaceForecast(nil, LoadingForecastMsg)

	return a, nil
}

// Start renders everything once and schedules the periodic weather
// refresh. Each step is isolated: a failing step is logged and the others
// still run. The first weather fetch runs in the background.
func (a *App) Start(ctx context.Context) error {
	appLog.Info("initializing ShoreSquad")

	runStep("map", func() error {
		appLog.Info("next cleanup", "lat", a.cfg.Weather.Latitude, "lon", a.cfg.Weather.Longitude)
		return nil
	})
	runStep("weather", func() error {
		go a.RefreshWeather(ctx)
		return nil
	})
	runStep("events", func() error {
		a.RenderEvents()
		return nil
	})
	runStep("crew", func() error {
		a.RenderCrew()
		return nil
	})

	a.sched = cron.New(cron.WithLocation(a.loc))
	if _, err := a.sched.AddFunc(a.cfg.Weather.Refresh, func() { a.RefreshWeather(ctx) }); err != nil {
		return fmt.Errorf("app: invalid weather refresh schedule %q: %w", a.cfg.Weather.Refresh, err)
	}
	a.sched.Start()

	appLog.Info("ShoreSquad initialized", "refresh", a.cfg.Weather.Refresh, "events", a.events.Len())
	return nil
}

// Stop halts the scheduler and any pending preview capture.
func (a *App) Stop(ctx context.Context) {
	if a.sched != nil {
		stopped := a.sched.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
	}
	if a.preview != nil {
		a.preview.Stop()
	}
}

func runStep(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			appLog.Error("startup step panicked", fmt.Errorf("%v", r), "step", name)
		}
	}()
	if err := fn(); err != nil {
		appLog.Error("startup step failed", err, "step", name)
	}
}

// RefreshWeather runs one fetch attempt. Failures end up in the error
// state on the surface and are not returned.
func (a *App) RefreshWeather(ctx context.Context) {
	_ = a.weather.Refresh(ctx)
	a.touch()
}

// RequestRefresh is the user-triggered refresh. It runs at most once per
// cooldown and reports whether it ran.
func (a *App) RequestRefresh(ctx context.Context) bool {
	return a.refresh.Do(func() { a.RefreshWeather(ctx) })
}

// RenderEvents rebuilds the events container from the store.
func (a *App) RenderEvents() {
	a.surface.ReplaceEvents(events.Cards(a.events.All(), a.now().In(a.loc)))
}

// RenderCrew rebuilds the team grid from the roster.
func (a *App) RenderCrew() {
	a.surface.ReplaceTeam(crew.Cards(a.crew))
}

// JoinEvent adds one participant and re-renders the events so the new
// count is visible. Unknown ids change nothing.
func (a *App) JoinEvent(id int) (model.Event, string, bool) {
	ev, ok := a.events.IncrementParticipants(id)
	if !ok {
		return model.Event{}, "", false
	}
	a.RenderEvents()
	a.touch()
	appLog.Info("event joined", "id", id, "participants", ev.Participants)
	return ev, events.JoinMessage(ev), true
}

// ShareEvent never fails; see events.Share.
func (a *App) ShareEvent(ctx context.Context, id int, pageURL string, native events.NativeSharer) model.ShareResult {
	ev, ok := a.events.FindByID(id)
	return events.Share(ctx, ev, ok, pageURL, native)
}

// AddMember appends a crew member and reports whether the roster changed.
func (a *App) AddMember(name string) bool {
	if !a.crew.Add(name) {
		return false
	}
	a.RenderCrew()
	a.touch()
	return true
}

// RemoveMember removes the member at pos after confirm answers yes.
func (a *App) RemoveMember(pos int, confirm crew.ConfirmFunc) bool {
	if !crew.Remove(a.crew, pos, confirm) {
		return false
	}
	a.RenderCrew()
	a.touch()
	return true
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Location returns the display timezone.
func (a *App) Location() *time.Location { return a.loc }

// Surface returns the current page contents.
func (a *App) Surface() surface.Snapshot { return a.surface.Snapshot() }

// Events returns the events in store order.
func (a *App) Events() []model.Event { return a.events.All() }

// Event looks up a single event.
func (a *App) Event(id int) (model.Event, bool) { return a.events.FindByID(id) }

// Crew returns the owner followed by the members.
func (a *App) Crew() []string { return a.crew.All() }

// Weather returns the widget status.
func (a *App) Weather() weather.Status { return a.weather.Status() }

// Ready reports whether the weather panel has left its loading state.
func (a *App) Ready() bool { return a.weather.Status().Attempts > 0 }

// State is the debug view of everything the app holds.
type State struct {
	Crew    []string       `json:"crew"`
	Weather weather.Status `json:"weather"`
	Events  []model.Event  `json:"events"`
}

func (a *App) State() State {
	return State{Crew: a.Crew(), Weather: a.Weather(), Events: a.Events()}
}

// touch schedules a preview capture once changes settle.
func (a *App) touch() {
	if a.preview != nil {
		a.preview.Trigger()
	}
}

func (a *App) capturePreview(ctx context.Context) error {
	url := a.cfg.Preview.BaseURL
	if url == "" {
		url = "http://" + a.cfg.Listen + "/"
	}
	err := capture.PagePNG(ctx, capture.Options{
		URL:        url,
		OutputPath: a.cfg.Preview.Output,
		Width:      a.cfg.Preview.Width,
		Height:     a.cfg.Preview.Height,
	})
	if err == nil {
		appLog.Info("preview captured", "output", a.cfg.Preview.Output)
	}
	return err
}
