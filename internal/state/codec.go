package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"learnhub/internal/events"
	"learnhub/internal/logging"

	"github.com/google/uuid"
)

// SnapshotVersion is the export artifact format version.
const SnapshotVersion = "1.0"

// Snapshot is the export artifact: the full root state plus export metadata.
type Snapshot struct {
	RootState
	ExportedAt int64  `json:"exportedAt"`
	Version    string `json:"version"`
}

// ImportReadError reports input bytes that could not be decoded as JSON.
type ImportReadError struct {
	Err error
}

func (e *ImportReadError) Error() string {
	return fmt.Sprintf("import: unreadable input: %v", e.Err)
}

func (e *ImportReadError) Unwrap() error { return e.Err }

// ImportValidationError reports a decoded object that is not a learnhub
// snapshot: none of progress, bookmarks, or settings is present.
type ImportValidationError struct {
	Reason string
}

func (e *ImportValidationError) Error() string {
	return fmt.Sprintf("import: invalid snapshot: %s", e.Reason)
}

// ExportSnapshot produces the export artifact and its deterministic
// date-derived filename (learning-hub-backup-<YYYY-MM-DD>.json).
func (h *Hub) ExportSnapshot() (Snapshot, string) {
	h.mu.Lock()
	now := h.now()
	snap := Snapshot{
		RootState:  *h.state.Clone(),
		ExportedAt: now.UnixMilli(),
		Version:    SnapshotVersion,
	}
	h.mu.Unlock()

	filename := fmt.Sprintf("learning-hub-backup-%s.json", now.Format("2006-01-02"))
	logging.Get(logging.CategoryCodec).Info("Exported snapshot %s", filename)
	h.bus.Publish(events.DataExported, filename)
	return snap, filename
}

// ImportSnapshot decodes a snapshot from r and applies it. With merge=true
// imported progress wins key-wise and bookmark lists are concatenated
// (local first) then deduplicated by unit id, first occurrence kept. With
// merge=false the whole state is replaced by defaults overlaid with the
// imported object. A failed import leaves current state untouched.
func (h *Hub) ImportSnapshot(ctx context.Context, r io.Reader, merge bool) (*RootState, error) {
	opID := uuid.NewString()
	log := logging.Get(logging.CategoryCodec)
	log.Info("Import %s started (merge=%v)", opID, merge)

	data, err := io.ReadAll(r)
	if err != nil {
		log.Error("Import %s failed reading input: %v", opID, err)
		return nil, &ImportReadError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ImportReadError{Err: err}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Error("Import %s failed decoding: %v", opID, err)
		return nil, &ImportReadError{Err: err}
	}

	if _, hasProgress := raw["progress"]; !hasProgress {
		if _, hasBookmarks := raw["bookmarks"]; !hasBookmarks {
			if _, hasSettings := raw["settings"]; !hasSettings {
				log.Error("Import %s rejected: no recognized fields", opID)
				return nil, &ImportValidationError{Reason: "missing progress, bookmarks, and settings"}
			}
		}
	}

	migrate(raw)
	migrated, err := json.Marshal(raw)
	if err != nil {
		return nil, &ImportReadError{Err: err}
	}
	incoming := defaultState()
	if err := json.Unmarshal(migrated, incoming); err != nil {
		log.Error("Import %s rejected: wrong field shapes: %v", opID, err)
		return nil, &ImportValidationError{Reason: fmt.Sprintf("wrong field shapes: %v", err)}
	}
	incoming.normalize()

	h.mu.Lock()
	if merge {
		h.mergeStateLocked(incoming)
	} else {
		h.state = incoming
	}
	h.recomputeCountsLocked()
	h.persistLocked()
	result := h.state.Clone()
	h.mu.Unlock()

	log.Info("Import %s applied: %d progress records, %d bookmarks", opID, len(result.Progress), len(result.Bookmarks))
	h.bus.Publish(events.DataImported, result)
	return result, nil
}

// mergeStateLocked folds an imported state into the current one. Imported
// progress wins on conflicting unit ids; local bookmarks keep their slot on
// conflicts; imported settings win per key.
func (h *Hub) mergeStateLocked(incoming *RootState) {
	for id, rec := range incoming.Progress {
		h.state.Progress[id] = rec.clone()
	}

	seen := make(map[string]bool, len(h.state.Bookmarks)+len(incoming.Bookmarks))
	merged := make([]*Bookmark, 0, len(h.state.Bookmarks)+len(incoming.Bookmarks))
	for _, bm := range h.state.Bookmarks {
		if !seen[bm.UnitID] {
			seen[bm.UnitID] = true
			merged = append(merged, bm)
		}
	}
	for _, bm := range incoming.Bookmarks {
		if !seen[bm.UnitID] {
			seen[bm.UnitID] = true
			c := *bm
			merged = append(merged, &c)
		}
	}
	h.state.Bookmarks = merged

	for k, v := range incoming.Settings {
		h.state.Settings[k] = v
	}

	// Streak is study history, not imported data: keep whichever is longer
	// and the most recent study date.
	if incoming.Stats.StudyStreak > h.state.Stats.StudyStreak {
		h.state.Stats.StudyStreak = incoming.Stats.StudyStreak
	}
	if h.state.Stats.LastStudyDate == nil ||
		(incoming.Stats.LastStudyDate != nil && *incoming.Stats.LastStudyDate > *h.state.Stats.LastStudyDate) {
		h.state.Stats.LastStudyDate = incoming.Stats.LastStudyDate
	}
	if incoming.Stats.TotalModules > h.state.Stats.TotalModules {
		h.state.Stats.TotalModules = incoming.Stats.TotalModules
	}
}
