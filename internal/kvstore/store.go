package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Keys shared between the panel, the summarize pipeline, and the listing views.
const (
	KeyAPIKey         = "openrouter_api_key"
	KeyWindowPos      = "windowPos"
	KeyWindowSize     = "windowSize"
	KeyWindowState    = "windowState"
	KeyTheme          = "theme"
	KeySavedSummaries = "savedSummaries"
)

// Store is the key-value contract. Each call completes or reports a failure.
// Missing keys are absent from the returned Values.
type Store interface {
	Get(ctx context.Context, keys ...string) (Values, error)
	Set(ctx context.Context, entries map[string]any) error
	Remove(ctx context.Context, keys ...string) error
}

// Values maps keys to their stored JSON encoding.
type Values map[string]json.RawMessage

// Has reports whether key was present in the store.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Decode unmarshals the value stored under key into target. It returns false
// when the key is absent and an error when the stored JSON does not fit target.
func (v Values) Decode(key string, target any) (bool, error) {
	raw, ok := v[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// String returns the value under key when it is a JSON string.
func (v Values) String(key string) (string, bool) {
	var s string
	found, err := v.Decode(key, &s)
	if !found || err != nil {
		return "", false
	}
	return s, true
}

// Error wraps a failed store operation with the keys it touched.
type Error struct {
	Op   string
	Keys []string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("kvstore %s [%s]: %v", e.Op, strings.Join(e.Keys, ","), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func encodeEntries(entries map[string]any) (map[string][]byte, error) {
	encoded := make(map[string][]byte, len(entries))
	for key, value := range entries {
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("empty key")
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		encoded[key] = data
	}
	return encoded, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dedupeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
