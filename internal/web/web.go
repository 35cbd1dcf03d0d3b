package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shoresquad/internal/app"
	"shoresquad/internal/crew"
	"shoresquad/internal/events"
	appLog "shoresquad/internal/log"
	"shoresquad/internal/model"
	"shoresquad/internal/weather"
)

// Server exposes the page, its form flows and the JSON API on top of app.App.
type Server struct {
	app *app.App
	mux *http.ServeMux

	pages *template.Template
}

//go:embed all:static
var embeddedStatic embed.FS

//go:embed templates/*.html
var embeddedTemplates embed.FS

// NewServer constructs a new Server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app: a,
		mux: http.NewServeMux(),
		pages: template.Must(template.New("").Funcs(template.FuncMap{
			"add": func(a, b int) int { return a + b },
		}).ParseFS(embeddedTemplates, "templates/*.html")),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// StartServer serves until ctx is canceled, then shuts down gracefully.
func StartServer(ctx context.Context, a *app.App) error {
	srv := &http.Server{
		Addr:              a.Config().Listen,
		Handler:           NewServer(a).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+a.Config().Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	// Page form flows (work without JavaScript).
	s.mux.HandleFunc("POST /events/{id}/join", s.handleJoinForm)
	s.mux.HandleFunc("POST /crew", s.handleCrewAddForm)
	s.mux.HandleFunc("GET /crew/{pos}/remove", s.handleCrewRemoveConfirm)
	s.mux.HandleFunc("POST /crew/{pos}/remove", s.handleCrewRemoveForm)

	// JSON API.
	s.mux.HandleFunc("GET /api/weather", s.handleWeather)
	s.mux.HandleFunc("POST /api/weather/refresh", s.handleWeatherRefresh)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("POST /api/events/{id}/join", s.handleJoin)
	s.mux.HandleFunc("GET /api/events/{id}/share", s.handleShare)
	s.mux.HandleFunc("GET /api/crew", s.handleCrew)
	s.mux.HandleFunc("POST /api/crew", s.handleCrewAdd)
	s.mux.HandleFunc("DELETE /api/crew/{pos}", s.handleCrewRemove)
	s.mux.HandleFunc("GET /api/state", s.handleState)

	s.mux.HandleFunc("GET /events.ics", s.handleICS)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)

	static := s.staticFileServer()
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", static))
	// The service worker must be served from the root to control the page.
	s.mux.Handle("GET /sw.js", static)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.FileServer(http.FS(sub))
}

// handlePreview serves the last captured PNG, if preview capture is enabled.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	cfg := s.app.Config()
	if !cfg.Preview.Enabled {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, cfg.Preview.Output)
}

// pageData is what templates/index.html renders.
type pageData struct {
	Surface   surfaceView
	Ready     bool
	Owner     string
	Latitude  float64
	Longitude float64
	Flash     string
}

type surfaceView struct {
	Temperature     string
	Wind            string
	Humidity        string
	Condition       string
	Forecast        []model.ForecastCard
	ForecastMessage string
	Events          []model.EventCard
	Team            []model.CrewCard
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.app.Surface()
	cfg := s.app.Config()

	data := pageData{
		Surface: surfaceView{
			Temperature:     snap.Slot(weather.SlotTemperature),
			Wind:            snap.Slot(weather.SlotWind),
			Humidity:        snap.Slot(weather.SlotHumidity),
			Condition:       snap.Slot(weather.SlotCondition),
			Forecast:        snap.Forecast,
			ForecastMessage: snap.ForecastMessage,
			Events:          snap.Events,
			Team:            snap.Team,
		},
		Ready:     s.app.Ready(),
		Owner:     cfg.Crew.Owner,
		Latitude:  cfg.Weather.Latitude,
		Longitude: cfg.Weather.Longitude,
	}
	if id, err := strconv.Atoi(r.URL.Query().Get("joined")); err == nil {
		if ev, ok := s.app.Event(id); ok {
			data.Flash = events.JoinMessage(ev)
		}
	}

	s.render(w, http.StatusOK, "index.html", data)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		appLog.Error("failed to render template", err, "template", name)
	}
}

func (s *Server) handleJoinForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Redirect(w, r, "/#events", http.StatusSeeOther)
		return
	}
	if _, _, ok := s.app.JoinEvent(id); !ok {
		http.Redirect(w, r, "/#events", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/?joined="+strconv.Itoa(id)+"#events", http.StatusSeeOther)
}

func (s *Server) handleCrewAddForm(w http.ResponseWriter, r *http.Request) {
	s.app.AddMember(r.FormValue("name"))
	http.Redirect(w, r, "/#team", http.StatusSeeOther)
}

type confirmData struct {
	Name     string
	Position int
	Prompt   string
}

func (s *Server) handleCrewRemoveConfirm(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(r.PathValue("pos"))
	members := s.app.Crew()[1:]
	if err != nil || pos < 0 || pos >= len(members) {
		http.Redirect(w, r, "/#team", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "confirm.html", confirmData{
		Name:     members[pos],
		Position: pos,
		Prompt:   crew.RemovePrompt,
	})
}

func (s *Server) handleCrewRemoveForm(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil {
		http.Redirect(w, r, "/#team", http.StatusSeeOther)
		return
	}
	// 확인 없이 들어온 요청은 확인 페이지로 돌려보낸다.
	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, "/crew/"+strconv.Itoa(pos)+"/remove", http.StatusSeeOther)
		return
	}
	s.app.RemoveMember(pos, confirmedBy(r))
	http.Redirect(w, r, "/#team", http.StatusSeeOther)
}

// confirmedBy answers the removal prompt from the request's confirm field.
func confirmedBy(r *http.Request) crew.ConfirmFunc {
	return func(string) bool { return r.FormValue("confirm") == "yes" }
}

// weatherResponse is the JSON shape for /api/weather.
type weatherResponse struct {
	Current         model.CurrentView    `json:"current"`
	Forecast        []model.ForecastCard `json:"forecast"`
	ForecastMessage string               `json:"forecast_message,omitempty"`
	Ready           bool                 `json:"ready"`
	LastError       string               `json:"last_error,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (s *Server) weatherPayload() weatherResponse {
	snap := s.app.Surface()
	st := s.app.Weather()
	forecast := snap.Forecast
	if forecast == nil {
		forecast = []model.ForecastCard{}
	}
	return weatherResponse{
		Current: model.CurrentView{
			Temperature: snap.Slot(weather.SlotTemperature),
			Wind:        snap.Slot(weather.SlotWind),
			Humidity:    snap.Slot(weather.SlotHumidity),
			Condition:   snap.Slot(weather.SlotCondition),
		},
		Forecast:        forecast,
		ForecastMessage: snap.ForecastMessage,
		Ready:           st.Attempts > 0,
		LastError:       st.LastError,
		UpdatedAt:       st.UpdatedAt,
	}
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.weatherPayload())
}

func (s *Server) handleWeatherRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.app.RequestRefresh(r.Context()) {
		writeError(w, http.StatusTooManyRequests, "refresh throttled; try again shortly")
		return
	}
	writeJSON(w, http.StatusOK, s.weatherPayload())
}

type eventsResponse struct {
	Events []model.Event     `json:"events"`
	Cards  []model.EventCard `json:"cards"`
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, eventsResponse{
		Events: s.app.Events(),
		Cards:  s.app.Surface().Events,
	})
}

type joinResponse struct {
	Event   model.Event `json:"event"`
	Message string      `json:"message"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	ev, msg, ok := s.app.JoinEvent(id)
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{Event: ev, Message: msg})
}

// clientSharer hands the share payload back to a browser that reported
// navigator.share support; the browser performs the actual share.
type clientSharer struct{}

func (clientSharer) Share(context.Context, string, string, string) error { return nil }

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageURL := q.Get("url")
	if pageURL == "" {
		pageURL = requestBaseURL(r)
	}
	var native events.NativeSharer
	if q.Get("native") == "1" {
		native = clientSharer{}
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		id = -1
	}
	writeJSON(w, http.StatusOK, s.app.ShareEvent(r.Context(), id, pageURL, native))
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

type crewResponse struct {
	Owner   string           `json:"owner"`
	Members []string         `json:"members"`
	Cards   []model.CrewCard `json:"cards"`
	Added   *bool            `json:"added,omitempty"`
	Removed *bool            `json:"removed,omitempty"`
}

func (s *Server) crewPayload() crewResponse {
	all := s.app.Crew()
	return crewResponse{
		Owner:   all[0],
		Members: append([]string{}, all[1:]...),
		Cards:   s.app.Surface().Team,
	}
}

func (s *Server) handleCrew(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.crewPayload())
}

func (s *Server) handleCrewAdd(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		name = body.Name
	}

	added := s.app.AddMember(name)
	resp := s.crewPayload()
	resp.Added = &added
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCrewRemove(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid position")
		return
	}
	if r.URL.Query().Get("confirm") != "yes" {
		writeError(w, http.StatusPreconditionRequired, "confirmation required: add ?confirm=yes")
		return
	}
	removed := s.app.RemoveMember(pos, func(string) bool { return true })
	resp := s.crewPayload()
	resp.Removed = &removed
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shoresquad.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(events.ExportICS(s.app.Events(), time.Now())))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: strings.TrimSpace(msg)})
}
