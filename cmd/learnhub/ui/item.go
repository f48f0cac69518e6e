package ui

import (
	"learnhub/internal/catalog"
	"learnhub/internal/state"
)

// unitItem adapts a catalog unit to the bubbles list, decorated with the
// unit's completion and bookmark markers.
type unitItem struct {
	unit       catalog.Unit
	completed  bool
	bookmarked bool
}

func (i unitItem) Title() string {
	marker := "  "
	if i.completed {
		marker = "✓ "
	}
	title := marker + i.unit.Title
	if i.bookmarked {
		title += " ★"
	}
	return title
}

func (i unitItem) Description() string { return i.unit.ID }
func (i unitItem) FilterValue() string { return i.unit.Title + " " + i.unit.ID }

// buildItems decorates the catalog listing with per-unit state.
func buildItems(hub *state.Hub, units []catalog.Unit) []unitItem {
	items := make([]unitItem, 0, len(units))
	for _, u := range units {
		items = append(items, unitItem{
			unit:       u,
			completed:  hub.Progress(u.ID).Completed,
			bookmarked: hub.IsBookmarked(u.ID),
		})
	}
	return items
}
