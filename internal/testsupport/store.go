package testsupport

import (
	"context"
	"encoding/json"
	"testing"

	"coursesum/internal/config"
	"coursesum/internal/kvstore"
)

// MustOpenStore opens a kvstore.SQLite for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *kvstore.SQLite {
	t.Helper()

	store, err := kvstore.Open(cfg)
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustSet writes entries or fails the test.
func MustSet(t testing.TB, store kvstore.Store, entries map[string]any) {
	t.Helper()

	if err := store.Set(context.Background(), entries); err != nil {
		t.Fatalf("store.Set: %v", err)
	}
}

// MustDecode reads key and decodes it into target, failing when absent.
func MustDecode(t testing.TB, store kvstore.Store, key string, target any) {
	t.Helper()

	values, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("store.Get(%s): %v", key, err)
	}
	raw, ok := values[key]
	if !ok {
		t.Fatalf("key %s not stored", key)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
}
