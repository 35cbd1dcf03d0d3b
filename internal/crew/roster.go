package crew

import (
	"strings"
	"sync"
)

// Roster is the crew list: a fixed owner (the current user) plus the
// members they added. The owner is never removable and is not part of
// the positions used by RemoveAt.
type Roster struct {
	mu      sync.RWMutex
	owner   string
	members []string
}

func NewRoster(owner string) *Roster {
	return &Roster{owner: owner}
}

// Owner returns the permanent roster entry.
func (r *Roster) Owner() string {
	return r.owner
}

// Members returns a copy of the added members in order.
func (r *Roster) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.members...)
}

// All returns the owner followed by the members.
func (r *Roster) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.members)+1)
	out = append(out, r.owner)
	return append(out, r.members...)
}

// Add appends the trimmed name. Empty or whitespace-only names are
// ignored and Add reports false.
func (r *Roster) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	r.mu.Lock()
	r.members = append(r.members, name)
	r.mu.Unlock()
	return true
}

// RemoveAt removes the member at pos (0-based, owner excluded). Out of
// range positions are ignored and RemoveAt reports false.
func (r *Roster) RemoveAt(pos int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pos < 0 || pos >= len(r.members) {
		return false
	}
	r.members = append(r.members[:pos], r.members[pos+1:]...)
	return true
}
