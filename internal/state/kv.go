package state

import "sync"

// KV is the blob store the persistence layer writes through. The production
// implementation is SQLiteKV; MemoryKV backs tests and ephemeral sessions.
type KV interface {
	// Get returns the value for key, with found=false when the key is absent.
	Get(key string) (value []byte, found bool, err error)
	// Put writes the value for key, replacing any previous value.
	Put(key string, value []byte) error
	Close() error
}

// MemoryKV is an in-memory KV implementation.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailPuts simulates a full store (quota exceeded) when set.
	FailPuts bool
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts {
		return errPutRejected
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
