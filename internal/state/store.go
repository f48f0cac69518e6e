package state

import (
	"encoding/json"
	"errors"
	"time"

	"learnhub/internal/logging"
)

// StateKey is the single key the root state blob lives under.
const StateKey = "learnhub-state"

var errPutRejected = errors.New("put rejected")

// PersistentStore reads and writes the root state blob through a KV.
// Read failures recover to defaults; write failures are logged and
// swallowed so the in-memory state stays authoritative for the session.
type PersistentStore struct {
	kv  KV
	key string
	now func() time.Time
}

// NewPersistentStore wraps a KV.
func NewPersistentStore(kv KV) *PersistentStore {
	return &PersistentStore{kv: kv, key: StateKey, now: time.Now}
}

// Load reads the stored blob, runs schema migrations, and unmarshals it
// over a defaults-initialized state so fields introduced since the blob
// was written always exist. Missing or corrupt blobs yield defaults.
func (p *PersistentStore) Load() *RootState {
	timer := logging.StartTimer(logging.CategoryStore, "Load")
	defer timer.Stop()

	state := defaultState()

	data, found, err := p.kv.Get(p.key)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to read state blob, using defaults: %v", err)
		return state
	}
	if !found {
		logging.Store("No stored state, starting from defaults")
		return state
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.Get(logging.CategoryStore).Error("Corrupt state blob, using defaults: %v", err)
		return state
	}
	migrate(raw)

	migrated, err := json.Marshal(raw)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to re-encode migrated blob, using defaults: %v", err)
		return state
	}
	if err := json.Unmarshal(migrated, state); err != nil {
		logging.Get(logging.CategoryStore).Error("State blob has wrong shape, using defaults: %v", err)
		return defaultState()
	}

	state.normalize()
	logging.Store("Loaded state: %d progress records, %d bookmarks", len(state.Progress), len(state.Bookmarks))
	return state
}

// Save stamps lastAccessed and writes the whole state back. A failed write
// is logged, not surfaced: durability is best-effort, in-memory state is not.
func (p *PersistentStore) Save(state *RootState) {
	state.LastAccessed = p.now().UnixMilli()
	state.SchemaVersion = CurrentSchemaVersion

	data, err := json.Marshal(state)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to serialize state: %v", err)
		return
	}
	if err := p.kv.Put(p.key, data); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to persist state (continuing in memory): %v", err)
	}
}
