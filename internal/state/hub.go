package state

import (
	"sync"
	"time"

	"learnhub/internal/events"
	"learnhub/internal/logging"
)

// Hub owns the root state and exposes every learning-state operation.
// It is explicitly constructed and passed by reference: no global instance.
// A single mutex serializes mutations, so two successive calls are strictly
// ordered and the later persisted state always reflects the earlier call.
type Hub struct {
	mu    sync.Mutex
	store *PersistentStore
	bus   *events.Bus
	state *RootState

	// now is swappable for streak and timestamp tests.
	now func() time.Time
}

// NewHub hydrates state from the store and wires the event bus.
func NewHub(store *PersistentStore, bus *events.Bus) *Hub {
	if bus == nil {
		bus = events.NewBus()
	}
	h := &Hub{
		store: store,
		bus:   bus,
		state: store.Load(),
		now:   time.Now,
	}
	return h
}

// Bus returns the hub's event bus for subscription.
func (h *Hub) Bus() *events.Bus {
	return h.bus
}

// Snapshot returns a deep copy of the current root state.
func (h *Hub) Snapshot() *RootState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Clone()
}

// CurrentUnit returns the last viewed unit id, or "".
func (h *Hub) CurrentUnit() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.CurrentUnit == nil {
		return ""
	}
	return *h.state.CurrentUnit
}

// SetCurrentUnit records the last viewed unit and persists.
func (h *Hub) SetCurrentUnit(unitID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if unitID == "" {
		h.state.CurrentUnit = nil
	} else {
		h.state.CurrentUnit = &unitID
	}
	h.persistLocked()
}

// ResetAll replaces the root state with fresh defaults. The confirmation
// gate belongs to the caller; the hub just performs the reset.
func (h *Hub) ResetAll() bool {
	h.mu.Lock()
	h.state = defaultState()
	h.persistLocked()
	h.mu.Unlock()

	logging.State("All learning state reset to defaults")
	h.bus.Publish(events.DataReset, nil)
	return true
}

// persistLocked writes the whole state back. Callers hold h.mu.
func (h *Hub) persistLocked() {
	h.store.Save(h.state)
}
