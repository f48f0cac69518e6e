package state

import (
	"strings"
	"testing"
	"time"

	"learnhub/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBookmarkDeduplicatesByUnit(t *testing.T) {
	hub, _ := newTestHub(t)

	hub.AddBookmark("m1", "First title", "path/m1", "first snippet")
	hub.AddBookmark("m1", "Second title", "path/m1", "second snippet")

	list := hub.Bookmarks()
	require.Len(t, list, 1)
	assert.Equal(t, "Second title", list[0].Title)
	assert.Equal(t, "second snippet", list[0].ContentSnippet)
}

func TestAddBookmarkReplacesInPlace(t *testing.T) {
	hub, _ := newTestHub(t)
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	hub.now = func() time.Time { return base }

	hub.AddBookmark("a", "A", "p/a", "")
	base = base.Add(time.Minute)
	hub.AddBookmark("b", "B", "p/b", "")
	base = base.Add(time.Minute)
	hub.AddBookmark("c", "C", "p/c", "")
	base = base.Add(time.Minute)
	hub.AddBookmark("b", "B2", "p/b", "")

	// Storage order keeps b in its old slot; new entries go to the front.
	state := hub.Snapshot()
	var order []string
	for _, bm := range state.Bookmarks {
		order = append(order, bm.UnitID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Equal(t, "B2", state.Bookmarks[1].Title)
}

func TestBookmarksSortedMostRecentFirst(t *testing.T) {
	hub, _ := newTestHub(t)
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	hub.now = func() time.Time { return base }

	hub.AddBookmark("a", "A", "p/a", "")
	base = base.Add(time.Hour)
	hub.AddBookmark("b", "B", "p/b", "")
	base = base.Add(time.Hour)
	hub.AddBookmark("a", "A2", "p/a", "") // replaced in place but newest by createdAt

	list := hub.Bookmarks()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].UnitID)
	assert.Equal(t, "b", list[1].UnitID)
}

func TestBookmarkIDsUniqueUnderFixedClock(t *testing.T) {
	hub, _ := newTestHub(t)
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	hub.now = func() time.Time { return base }

	a := hub.AddBookmark("a", "A", "p/a", "")
	b := hub.AddBookmark("b", "B", "p/b", "")

	require.NotEmpty(t, a.ID)
	require.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRemoveBookmark(t *testing.T) {
	hub, _ := newTestHub(t)

	removals := 0
	hub.Bus().Subscribe(events.BookmarkRemoved, func(events.Event) { removals++ })

	hub.AddBookmark("m1", "Title", "path/m1", "snippet")

	removed := hub.RemoveBookmark("m1")
	require.NotNil(t, removed)
	assert.Equal(t, "m1", removed.UnitID)
	assert.False(t, hub.IsBookmarked("m1"))
	assert.Empty(t, hub.Bookmarks())

	// Removing again is a no-op and publishes nothing.
	assert.Nil(t, hub.RemoveBookmark("m1"))
	assert.Equal(t, 1, removals)
}

func TestSnippetTruncation(t *testing.T) {
	hub, _ := newTestHub(t)

	long := strings.Repeat("é", 500)
	bm := hub.AddBookmark("m1", "Title", "path/m1", long)

	assert.Equal(t, 200, len([]rune(bm.ContentSnippet)))
	assert.True(t, strings.HasPrefix(long, bm.ContentSnippet))
}

func TestSearchBookmarks(t *testing.T) {
	hub, _ := newTestHub(t)

	hub.AddBookmark("m1", "Intro to Go", "basics/intro", "packages and modules")
	hub.AddBookmark("m2", "Concurrency", "advanced/concurrency", "goroutines and channels")
	hub.AddBookmark("m3", "Testing", "basics/testing", "table driven tests")

	assert.Len(t, hub.SearchBookmarks("BASICS"), 2)

	got := hub.SearchBookmarks("goroutines")
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].UnitID)

	assert.Empty(t, hub.SearchBookmarks("python"))
}
