package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherRescansOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeUnit(t, dir, "a.md", "# A\n")
	writeUnit(t, dir, "basics/intro.md", "# Intro\n")

	updates := make(chan int, 16)
	cat := New(dir, func(units []Unit) { updates <- len(units) })
	require.NoError(t, cat.Refresh(context.Background()))
	<-updates // initial scan

	w, err := NewWatcher(cat)
	require.NoError(t, err)
	w.debounceDur = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// A unit inside an existing subdirectory must trigger a rescan too.
	writeUnit(t, dir, "basics/types.md", "# Types\n")
	waitForCount(t, updates, 3)

	// So must a unit inside a directory created after the watcher started.
	writeUnit(t, dir, "advanced/channels.md", "# Channels\n")
	waitForCount(t, updates, 4)

	if w.Stats().Rescans == 0 {
		t.Fatalf("expected rescan counter to advance")
	}
}

// waitForCount drains updates until the unit count reaches want.
func waitForCount(t *testing.T, updates <-chan int, want int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case n := <-updates:
			if n == want {
				return
			}
		case <-deadline:
			t.Fatalf("expected a rescan to find %d units", want)
		}
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	cat := New(dir, nil)

	w, err := NewWatcher(cat)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop() // second stop must not panic or block
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	cat := New(dir, nil)

	w, err := NewWatcher(cat)
	require.NoError(t, err)
	w.debounceDur = 20 * time.Millisecond
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeUnit(t, dir, "notes.txt", "plain")
	time.Sleep(300 * time.Millisecond)

	if got := w.Stats().EventsSeen; got != 0 {
		t.Fatalf("expected no events for non-markdown files, got %d", got)
	}
}
