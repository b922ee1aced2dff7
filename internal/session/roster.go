package session

import (
	"sync"

	"github.com/vovakirdan/tui-soccer/internal/entity"
)

// Roster tracks known participants, keyed by id and kept in arrival order.
// Thread-safe for concurrent access.
type Roster struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]entity.Descriptor
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		byID: make(map[string]entity.Descriptor),
	}
}

// Add appends d unless its id is already present.
// Returns true if the roster changed.
func (r *Roster) Add(d entity.Descriptor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[d.ID]; ok {
		return false
	}
	r.byID[d.ID] = d
	r.order = append(r.order, d.ID)
	return true
}

// Remove deletes the entry for id. Returns true if it was present.
func (r *Roster) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the entry for id.
func (r *Roster) Get(id string) (entity.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// List returns a copy of all entries in arrival order.
func (r *Roster) List() []entity.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Names maps every id to its display name.
func (r *Roster) Names() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make(map[string]string, len(r.byID))
	for id, d := range r.byID {
		names[id] = d.Name
	}
	return names
}

// Len returns the number of entries.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear removes every entry.
func (r *Roster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.byID = make(map[string]entity.Descriptor)
}
