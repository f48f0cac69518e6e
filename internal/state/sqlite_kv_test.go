package state

import (
	"path/filepath"
	"testing"
)

func TestSQLiteKVPutGet(t *testing.T) {
	kv, err := NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("Failed to create sqlite kv: %v", err)
	}
	defer kv.Close()

	if _, found, err := kv.Get(StateKey); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	if err := kv.Put(StateKey, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, found, err := kv.Get(StateKey)
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("unexpected value: %s", data)
	}

	// Replace on conflict
	if err := kv.Put(StateKey, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Put (replace) failed: %v", err)
	}
	data, _, _ = kv.Get(StateKey)
	if string(data) != `{"a":2}` {
		t.Errorf("expected replaced value, got %s", data)
	}
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "learnhub.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("Failed to create sqlite kv: %v", err)
	}
	if err := kv.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	kv.Close()

	kv2, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("Failed to reopen sqlite kv: %v", err)
	}
	defer kv2.Close()

	data, found, err := kv2.Get("k")
	if err != nil || !found {
		t.Fatalf("expected value after reopen, found=%v err=%v", found, err)
	}
	if string(data) != "v" {
		t.Errorf("unexpected value after reopen: %s", data)
	}
}
