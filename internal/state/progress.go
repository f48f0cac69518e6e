package state

import (
	"learnhub/internal/events"
	"learnhub/internal/logging"
)

// Progress returns the stored record for a unit, or a zero-value default.
// Reading never creates a record.
func (h *Hub) Progress(unitID string) ProgressRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.state.Progress[unitID]; ok {
		return *rec.clone()
	}
	return ProgressRecord{}
}

// SetProgress lazily creates the unit's record, applies the non-nil patch
// fields, stamps lastAccessed, recomputes counters, and persists.
func (h *Hub) SetProgress(unitID string, patch ProgressPatch) {
	h.mu.Lock()
	rec := h.ensureRecordLocked(unitID)
	if patch.Completed != nil {
		rec.Completed = *patch.Completed
	}
	if patch.CompletedAt != nil {
		v := *patch.CompletedAt
		rec.CompletedAt = &v
	}
	if patch.TimeSpent != nil {
		rec.TimeSpent = *patch.TimeSpent
	}
	now := h.now().UnixMilli()
	rec.LastAccessed = &now

	h.recomputeCountsLocked()
	h.persistLocked()
	payload := ProgressUpdate{UnitID: unitID, Record: *rec.clone()}
	h.mu.Unlock()

	logging.StateDebug("Progress updated for %s", unitID)
	h.bus.Publish(events.ProgressUpdated, payload)
}

// MarkComplete marks a unit completed, advances the study streak, and
// recomputes counters.
func (h *Hub) MarkComplete(unitID string) {
	h.mu.Lock()
	rec := h.ensureRecordLocked(unitID)
	now := h.now().UnixMilli()
	rec.Completed = true
	rec.CompletedAt = &now
	rec.LastAccessed = &now

	h.updateStreakLocked()
	h.recomputeCountsLocked()
	h.persistLocked()
	payload := ProgressUpdate{UnitID: unitID, Record: *rec.clone()}
	h.mu.Unlock()

	logging.State("Unit %s marked complete", unitID)
	h.bus.Publish(events.ModuleCompleted, payload)
}

// MarkIncomplete clears a unit's completion. The streak is not reverted:
// it reflects study activity, not the current completion count.
func (h *Hub) MarkIncomplete(unitID string) {
	h.mu.Lock()
	rec := h.ensureRecordLocked(unitID)
	now := h.now().UnixMilli()
	rec.Completed = false
	rec.CompletedAt = nil
	rec.LastAccessed = &now

	h.recomputeCountsLocked()
	h.persistLocked()
	payload := ProgressUpdate{UnitID: unitID, Record: *rec.clone()}
	h.mu.Unlock()

	logging.State("Unit %s marked incomplete", unitID)
	h.bus.Publish(events.ModuleUncompleted, payload)
}

// ensureRecordLocked returns the unit's record, creating the default one on
// first touch. Records are never deleted.
func (h *Hub) ensureRecordLocked(unitID string) *ProgressRecord {
	if rec, ok := h.state.Progress[unitID]; ok {
		return rec
	}
	rec := &ProgressRecord{}
	h.state.Progress[unitID] = rec
	return rec
}
