package state

import (
	"testing"

	"learnhub/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReadHasNoSideEffects(t *testing.T) {
	hub, _ := newTestHub(t)

	rec := hub.Progress("m1")
	assert.False(t, rec.Completed)
	assert.Nil(t, rec.CompletedAt)

	state := hub.Snapshot()
	assert.Empty(t, state.Progress, "reading progress must not create records")
}

func TestSetProgressLazyCreatesAndMerges(t *testing.T) {
	hub, _ := newTestHub(t)

	spent := int64(60000)
	hub.SetProgress("m1", ProgressPatch{TimeSpent: &spent})

	rec := hub.Progress("m1")
	assert.Equal(t, int64(60000), rec.TimeSpent)
	assert.False(t, rec.Completed)
	require.NotNil(t, rec.LastAccessed)

	// A second patch touches only its own fields.
	done := true
	hub.SetProgress("m1", ProgressPatch{Completed: &done})
	rec = hub.Progress("m1")
	assert.True(t, rec.Completed)
	assert.Equal(t, int64(60000), rec.TimeSpent)
}

func TestMarkCompleteAndIncomplete(t *testing.T) {
	hub, _ := newTestHub(t)

	hub.MarkComplete("m1")
	rec := hub.Progress("m1")
	assert.True(t, rec.Completed)
	require.NotNil(t, rec.CompletedAt)

	hub.MarkIncomplete("m1")
	rec = hub.Progress("m1")
	assert.False(t, rec.Completed)
	assert.Nil(t, rec.CompletedAt)

	// The record survives; it is never deleted.
	state := hub.Snapshot()
	assert.Contains(t, state.Progress, "m1")
}

func TestCompletedCountConsistency(t *testing.T) {
	hub, _ := newTestHub(t)

	spent := int64(1000)
	hub.SetProgress("a", ProgressPatch{TimeSpent: &spent})
	hub.MarkComplete("a")
	hub.MarkComplete("b")
	hub.MarkComplete("c")
	hub.MarkIncomplete("b")
	hub.SetProgress("d", ProgressPatch{TimeSpent: &spent})

	report := hub.AnalyticsReport()
	assert.Equal(t, 2, report.CompletedModules)

	want := 0
	for _, rec := range hub.Snapshot().Progress {
		if rec.Completed {
			want++
		}
	}
	assert.Equal(t, want, report.CompletedModules)
}

func TestProgressEvents(t *testing.T) {
	hub, _ := newTestHub(t)

	var names []string
	hub.Bus().SubscribeAll(func(e events.Event) { names = append(names, e.Name) })

	spent := int64(100)
	hub.SetProgress("m1", ProgressPatch{TimeSpent: &spent})
	hub.MarkComplete("m1")
	hub.MarkIncomplete("m1")

	assert.Equal(t, []string{events.ProgressUpdated, events.ModuleCompleted, events.ModuleUncompleted}, names)
}

func TestModuleCompletedPayload(t *testing.T) {
	hub, _ := newTestHub(t)

	var got ProgressUpdate
	hub.Bus().Subscribe(events.ModuleCompleted, func(e events.Event) {
		got = e.Payload.(ProgressUpdate)
	})

	hub.MarkComplete("m7")
	assert.Equal(t, "m7", got.UnitID)
	assert.True(t, got.Record.Completed)
}
