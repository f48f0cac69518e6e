package state

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"learnhub/internal/events"
	"learnhub/internal/logging"
)

// snippetLimit caps the stored content snippet length in runes.
const snippetLimit = 200

// AddBookmark saves a bookmark for a unit. A second bookmark for the same
// unit replaces the first in its existing list position (latest wins);
// otherwise the new bookmark goes to the front of the list.
func (h *Hub) AddBookmark(unitID, title, path, content string) Bookmark {
	h.mu.Lock()
	now := h.now()
	bm := &Bookmark{
		ID:             "bm-" + uuid.NewString(),
		UnitID:         unitID,
		Title:          title,
		Path:           path,
		ContentSnippet: truncateSnippet(content),
		CreatedAt:      now.UnixMilli(),
	}

	replaced := false
	for i, existing := range h.state.Bookmarks {
		if existing.UnitID == unitID {
			h.state.Bookmarks[i] = bm
			replaced = true
			break
		}
	}
	if !replaced {
		h.state.Bookmarks = append([]*Bookmark{bm}, h.state.Bookmarks...)
	}

	h.persistLocked()
	out := *bm
	h.mu.Unlock()

	logging.State("Bookmark added for %s (%q)", unitID, title)
	h.bus.Publish(events.BookmarkAdded, out)
	return out
}

// RemoveBookmark removes and returns the bookmark for a unit, or nil when
// none exists. The event fires only when a removal occurred.
func (h *Hub) RemoveBookmark(unitID string) *Bookmark {
	h.mu.Lock()
	var removed *Bookmark
	for i, bm := range h.state.Bookmarks {
		if bm.UnitID == unitID {
			removed = bm
			h.state.Bookmarks = append(h.state.Bookmarks[:i], h.state.Bookmarks[i+1:]...)
			break
		}
	}
	if removed == nil {
		h.mu.Unlock()
		return nil
	}
	h.persistLocked()
	out := *removed
	h.mu.Unlock()

	logging.State("Bookmark removed for %s", unitID)
	h.bus.Publish(events.BookmarkRemoved, out)
	return &out
}

// Bookmarks returns a copy of all bookmarks sorted most recent first.
// The sort order is a view concern; storage order is insertion order.
func (h *Hub) Bookmarks() []Bookmark {
	h.mu.Lock()
	out := make([]Bookmark, 0, len(h.state.Bookmarks))
	for _, bm := range h.state.Bookmarks {
		out = append(out, *bm)
	}
	h.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// IsBookmarked reports whether a bookmark exists for the unit.
func (h *Hub) IsBookmarked(unitID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, bm := range h.state.Bookmarks {
		if bm.UnitID == unitID {
			return true
		}
	}
	return false
}

// SearchBookmarks returns bookmarks whose title, path, or snippet contains
// the query, case-insensitively, most recent first.
func (h *Hub) SearchBookmarks(query string) []Bookmark {
	q := strings.ToLower(query)
	all := h.Bookmarks()
	out := make([]Bookmark, 0, len(all))
	for _, bm := range all {
		if strings.Contains(strings.ToLower(bm.Title), q) ||
			strings.Contains(strings.ToLower(bm.Path), q) ||
			strings.Contains(strings.ToLower(bm.ContentSnippet), q) {
			out = append(out, bm)
		}
	}
	return out
}

func truncateSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLimit {
		return content
	}
	return string(runes[:snippetLimit])
}
