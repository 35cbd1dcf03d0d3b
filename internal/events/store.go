package events

import (
	"fmt"
	"sync"

	"shoresquad/internal/model"
)

// Store is an ordered, in-memory list of events. Events are never removed;
// only the participant counter changes.
type Store struct {
	mu     sync.RWMutex
	events []model.Event
	index  map[int]int // id -> position
}

// NewStore seeds a store. Ids must be unique and participant counts
// non-negative.
func NewStore(seed []model.Event) (*Store, error) {
	s := &Store{
		events: make([]model.Event, 0, len(seed)),
		index:  make(map[int]int, len(seed)),
	}
	for _, ev := range seed {
		if _, dup := s.index[ev.ID]; dup {
			return nil, fmt.Errorf("events: duplicate id %d", ev.ID)
		}
		if ev.Participants < 0 {
			return nil, fmt.Errorf("events: negative participants for id %d", ev.ID)
		}
		s.index[ev.ID] = len(s.events)
		s.events = append(s.events, ev)
	}
	return s, nil
}

// All returns a copy of the events in seed order.
func (s *Store) All() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Event(nil), s.events...)
}

// Len returns the number of events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// FindByID looks up an event by id.
func (s *Store) FindByID(id int) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Event{}, false
	}
	return s.events[i], true
}

// IncrementParticipants adds exactly one participant to the event and
// returns the updated event. Unknown ids leave the store unchanged.
func (s *Store) IncrementParticipants(id int) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.Event{}, false
	}
	s.events[i].Participants++
	return s.events[i], true
}
