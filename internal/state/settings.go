package state

import (
	"learnhub/internal/events"
	"learnhub/internal/logging"
)

// Setting returns the value for a settings key, falling back to the
// built-in default for known keys and "" for unknown ones.
func (h *Hub) Setting(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.state.Settings[key]; ok {
		return v
	}
	return DefaultSettings()[key]
}

// SettingsSnapshot returns a copy of all stored settings.
func (h *Hub) SettingsSnapshot() Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(Settings, len(h.state.Settings))
	for k, v := range h.state.Settings {
		out[k] = v
	}
	return out
}

// SetSetting stores one preference and persists.
func (h *Hub) SetSetting(key, value string) {
	h.mu.Lock()
	h.state.Settings[key] = value
	h.persistLocked()
	h.mu.Unlock()

	logging.StateDebug("Setting %s = %s", key, value)
	h.bus.Publish(events.SettingChanged, SettingChange{Key: key, Value: value})
}

// UpdateSettings merges a batch of preferences and persists once.
func (h *Hub) UpdateSettings(values map[string]string) {
	h.mu.Lock()
	for k, v := range values {
		h.state.Settings[k] = v
	}
	h.persistLocked()
	updated := make(Settings, len(h.state.Settings))
	for k, v := range h.state.Settings {
		updated[k] = v
	}
	h.mu.Unlock()

	logging.StateDebug("Settings updated (%d keys)", len(values))
	h.bus.Publish(events.SettingsUpdated, updated)
}
