package state

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSnapshotShapeAndFilename(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local) }

	hub.MarkComplete("m1")
	snap, filename := hub.ExportSnapshot()

	assert.Equal(t, "learning-hub-backup-2026-03-14.json", filename)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, hub.now().UnixMilli(), snap.ExportedAt)
	assert.True(t, snap.Progress["m1"].Completed)

	// The artifact flattens to the persisted schema plus export metadata.
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"progress", "bookmarks", "settings", "stats", "exportedAt", "version"} {
		assert.Contains(t, raw, key)
	}
}

func TestRoundTripExportImportReplace(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local) }

	hub.SetTotalModules(10)
	hub.MarkComplete("m1")
	hub.AddBookmark("m2", "Title", "path/m2", "snippet")
	hub.SetSetting(SettingTheme, "dark")
	before := hub.Snapshot()

	snap, _ := hub.ExportSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	// Import into a fresh hub in replace mode.
	other, _ := newTestHub(t)
	restored, err := other.ImportSnapshot(context.Background(), bytes.NewReader(data), false)
	require.NoError(t, err)

	ignore := cmpopts.IgnoreFields(RootState{}, "LastAccessed")
	if diff := cmp.Diff(before, restored, ignore); diff != "" {
		t.Errorf("state mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestImportMergeKeepsLocalCompletions(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.MarkComplete("A")

	imported := `{"progress":{"B":{"completed":true,"completedAt":1000,"timeSpent":0,"lastAccessed":1000}},"bookmarks":[],"settings":{}}`
	state, err := hub.ImportSnapshot(context.Background(), strings.NewReader(imported), true)
	require.NoError(t, err)

	assert.True(t, state.Progress["A"].Completed, "merge must not lose local completions")
	assert.True(t, state.Progress["B"].Completed)
	assert.Equal(t, 2, hub.Stats().CompletedModules)
}

func TestImportMergeImportedProgressWins(t *testing.T) {
	hub, _ := newTestHub(t)
	spent := int64(1000)
	hub.SetProgress("A", ProgressPatch{TimeSpent: &spent})

	imported := `{"progress":{"A":{"completed":true,"completedAt":5,"timeSpent":99,"lastAccessed":5}}}`
	state, err := hub.ImportSnapshot(context.Background(), strings.NewReader(imported), true)
	require.NoError(t, err)

	assert.True(t, state.Progress["A"].Completed)
	assert.Equal(t, int64(99), state.Progress["A"].TimeSpent)
}

func TestImportMergeDeduplicatesBookmarks(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.AddBookmark("m1", "Local", "p/m1", "")

	imported := `{"bookmarks":[
		{"id":"x","unitId":"m1","title":"Imported dup","path":"p/m1","contentSnippet":"","createdAt":1},
		{"id":"y","unitId":"m2","title":"Imported new","path":"p/m2","contentSnippet":"","createdAt":2}
	]}`
	state, err := hub.ImportSnapshot(context.Background(), strings.NewReader(imported), true)
	require.NoError(t, err)

	require.Len(t, state.Bookmarks, 2)
	// First occurrence after concatenation (the local one) wins.
	assert.Equal(t, "Local", state.Bookmarks[0].Title)
	assert.Equal(t, "Imported new", state.Bookmarks[1].Title)
}

func TestImportRejectsUndecodableBytes(t *testing.T) {
	hub, _ := newTestHub(t)

	_, err := hub.ImportSnapshot(context.Background(), strings.NewReader("definitely not json"), false)
	var readErr *ImportReadError
	require.ErrorAs(t, err, &readErr)
}

func TestImportRejectsShapelessObject(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.MarkComplete("m1")
	before := hub.Snapshot()

	_, err := hub.ImportSnapshot(context.Background(), strings.NewReader(`{"not":"valid-shape"}`), false)
	var valErr *ImportValidationError
	require.ErrorAs(t, err, &valErr)

	// Existing state untouched.
	if diff := cmp.Diff(before, hub.Snapshot()); diff != "" {
		t.Errorf("state changed by rejected import (-want +got):\n%s", diff)
	}
}

func TestImportDropsNullEntries(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.MarkComplete("local")

	// Hand-edited snapshots can carry JSON nulls inside progress and
	// bookmarks; they must be dropped, not imported as nil records.
	imported := `{"progress":{"A":null,"B":{"completed":true,"completedAt":7,"timeSpent":0,"lastAccessed":7}},"bookmarks":[null]}`
	state, err := hub.ImportSnapshot(context.Background(), strings.NewReader(imported), true)
	require.NoError(t, err)

	assert.NotContains(t, state.Progress, "A")
	assert.True(t, state.Progress["B"].Completed)
	assert.True(t, state.Progress["local"].Completed)
	assert.Empty(t, state.Bookmarks)
	assert.Equal(t, 2, hub.Stats().CompletedModules)

	// Replace mode takes the same payload without panicking either.
	state, err = hub.ImportSnapshot(context.Background(), strings.NewReader(`{"progress":{"A":null},"bookmarks":[null]}`), false)
	require.NoError(t, err)
	assert.Empty(t, state.Progress)
	assert.Empty(t, state.Bookmarks)
	assert.Equal(t, 0, hub.Stats().CompletedModules)
}

func TestImportAcceptsPartialSnapshot(t *testing.T) {
	hub, _ := newTestHub(t)

	// settings alone is enough to accept the file.
	state, err := hub.ImportSnapshot(context.Background(), strings.NewReader(`{"settings":{"theme":"dark"}}`), true)
	require.NoError(t, err)
	assert.Equal(t, "dark", state.Settings[SettingTheme])
}

func TestImportReplaceFillsDefaults(t *testing.T) {
	hub, _ := newTestHub(t)
	hub.SetSetting(SettingTheme, "dark")

	state, err := hub.ImportSnapshot(context.Background(), strings.NewReader(`{"progress":{}}`), false)
	require.NoError(t, err)

	// Replace mode is defaults overlaid with the import, not a merge.
	assert.Equal(t, "light", state.Settings[SettingTheme])
	assert.Empty(t, state.Bookmarks)
}
