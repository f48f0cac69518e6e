// Package events implements the notification bus for learning-state changes.
// Internal listeners and the surrounding application both register through the
// same subscribe/publish interface; a buffered stream channel mirrors every
// event for consumers that drive an event loop instead of callbacks.
package events

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Canonical event names published by the state hub.
const (
	ProgressUpdated   = "progress-updated"
	ModuleCompleted   = "module-completed"
	ModuleUncompleted = "module-uncompleted"
	BookmarkAdded     = "bookmark-added"
	BookmarkRemoved   = "bookmark-removed"
	SettingChanged    = "setting-changed"
	SettingsUpdated   = "settings-updated"
	DataExported      = "data-exported"
	DataImported      = "data-imported"
	DataReset         = "data-reset"
)

// Event is a single state-change notification.
type Event struct {
	ID        uint64
	Name      string
	Payload   interface{}
	Timestamp time.Time
}

// Handler receives published events.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	name string
	id   uint64
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// Bus dispatches events synchronously to named subscribers and mirrors them
// into stream channels. Dispatch order follows registration order. A handler
// that panics is isolated so the remaining handlers still run.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]handlerEntry
	all      []handlerEntry
	streams  []chan Event

	sequence atomic.Uint64
	nextSub  atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]handlerEntry),
	}
}

// Subscribe registers a handler for a single event name.
func (b *Bus) Subscribe(name string, fn Handler) Subscription {
	id := b.nextSub.Add(1)
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], handlerEntry{id: id, fn: fn})
	b.mu.Unlock()
	return Subscription{name: name, id: id}
}

// SubscribeAll registers a handler for every event name.
func (b *Bus) SubscribeAll(fn Handler) Subscription {
	id := b.nextSub.Add(1)
	b.mu.Lock()
	b.all = append(b.all, handlerEntry{id: id, fn: fn})
	b.mu.Unlock()
	return Subscription{id: id}
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub.name != "" {
		b.handlers[sub.name] = removeEntry(b.handlers[sub.name], sub.id)
		return
	}
	b.all = removeEntry(b.all, sub.id)
}

func removeEntry(entries []handlerEntry, id uint64) []handlerEntry {
	for i, e := range entries {
		if e.id == id {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}

// Stream returns a channel that receives every published event.
// The channel is buffered so slow consumers do not block publishers;
// events are dropped when the buffer is full.
func (b *Bus) Stream() <-chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.streams = append(b.streams, ch)
	b.mu.Unlock()
	return ch
}

// CloseStream removes a stream channel and closes it.
func (b *Bus) CloseStream(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.streams {
		if s == ch {
			b.streams = append(b.streams[:i], b.streams[i+1:]...)
			close(s)
			return
		}
	}
}

// Publish dispatches an event to all handlers registered for its name,
// then to catch-all handlers, then into stream channels.
func (b *Bus) Publish(name string, payload interface{}) {
	event := Event{
		ID:        b.sequence.Add(1),
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	named := make([]handlerEntry, len(b.handlers[name]))
	copy(named, b.handlers[name])
	all := make([]handlerEntry, len(b.all))
	copy(all, b.all)
	b.mu.RUnlock()

	for _, e := range named {
		invoke(e.fn, event)
	}
	for _, e := range all {
		invoke(e.fn, event)
	}

	// Stream sends stay under the read lock: CloseStream holds the write
	// lock while it closes a channel, so a send can never hit a closed one.
	b.mu.RLock()
	for _, ch := range b.streams {
		select {
		case ch <- event:
		default:
			// Full buffer: drop rather than block the mutation path.
		}
	}
	b.mu.RUnlock()
}

// invoke runs a handler, containing panics so one bad subscriber
// cannot block the others.
func invoke(fn Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[events] handler panic on %s: %v\n", event.Name, r)
		}
	}()
	fn(event)
}
