// Package surface is the in-memory model of the page the views write into:
// a set of named text slots plus the forecast, events and team containers.
// A surface only has the slots and containers it was built with; writes to
// anything else are silently dropped.
package surface

import (
	"sync"

	"shoresquad/internal/model"
)

// Container names.
const (
	ContainerForecast = "forecastWidget"
	ContainerEvents   = "eventsList"
	ContainerTeam     = "teamGrid"
)

// Surface implements weather.Display and the event/crew render targets.
type Surface struct {
	mu sync.RWMutex

	slots      map[string]string
	containers map[string]bool

	forecast        []model.ForecastCard
	forecastMessage string
	events          []model.EventCard
	team            []model.CrewCard

	// version increases on every successful write.
	version uint64
}

// New builds a surface with the given slots and containers present.
func New(slots []string, containers []string) *Surface {
	s := &Surface{
		slots:      make(map[string]string, len(slots)),
		containers: make(map[string]bool, len(containers)),
	}
	for _, name := range slots {
		s.slots[name] = ""
	}
	for _, name := range containers {
		s.containers[name] = true
	}
	return s
}

// SetText writes text into a slot. Missing slots are a no-op.
func (s *Surface) SetText(slot, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot]; !ok {
		return false
	}
	s.slots[slot] = text
	s.version++
	return true
}

// Text returns the text of a slot and whether the slot exists.
func (s *Surface) Text(slot string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[slot]
	return v, ok
}

// ReplaceForecast clears the forecast container and fills it.
func (s *Surface) ReplaceForecast(cards []model.ForecastCard, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.containers[ContainerForecast] {
		return false
	}
	s.forecast = append([]model.ForecastCard(nil), cards...)
	s.forecastMessage = message
	s.version++
	return true
}

// ReplaceEvents clears the events container and fills it.
func (s *Surface) ReplaceEvents(cards []model.EventCard) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.containers[ContainerEvents] {
		return false
	}
	s.events = append([]model.EventCard(nil), cards...)
	s.version++
	return true
}

// ReplaceTeam clears the team grid and fills it.
func (s *Surface) ReplaceTeam(cards []model.CrewCard) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.containers[ContainerTeam] {
		return false
	}
	s.team = append([]model.CrewCard(nil), cards...)
	s.version++
	return true
}

// Snapshot is an immutable copy of everything on the surface, used by the
// page template.
type Snapshot struct {
	Slots           map[string]string
	HasForecast     bool
	Forecast        []model.ForecastCard
	ForecastMessage string
	HasEvents       bool
	Events          []model.EventCard
	HasTeam         bool
	Team            []model.CrewCard
	Version         uint64
}

// Slot returns the text of a slot or "" when it is absent.
func (sn Snapshot) Slot(name string) string {
	return sn.Slots[name]
}

// HasSlot reports whether the surface was built with the slot.
func (sn Snapshot) HasSlot(name string) bool {
	_, ok := sn.Slots[name]
	return ok
}

func (s *Surface) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make(map[string]string, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}
	return Snapshot{
		Slots:           slots,
		HasForecast:     s.containers[ContainerForecast],
		Forecast:        append([]model.ForecastCard(nil), s.forecast...),
		ForecastMessage: s.forecastMessage,
		HasEvents:       s.containers[ContainerEvents],
		Events:          append([]model.EventCard(nil), s.events...),
		HasTeam:         s.containers[ContainerTeam],
		Team:            append([]model.CrewCard(nil), s.team...),
		Version:         s.version,
	}
}
