package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process Store. Failure injection hooks make it useful for
// exercising error paths in callers.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	writeErr error
	readErr  error
	writes   int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// SetWriteError makes subsequent Set and Remove calls fail with err. Pass nil to clear.
func (m *Memory) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// SetReadError makes subsequent Get calls fail with err. Pass nil to clear.
func (m *Memory) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Writes returns the number of successful Set and Remove calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// PutRaw stores raw bytes under key without JSON encoding, for seeding
// malformed values in tests.
func (m *Memory) PutRaw(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), raw...)
}

func (m *Memory) Get(ctx context.Context, keys ...string) (Values, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return nil, &Error{Op: "get", Keys: keys, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, &Error{Op: "get", Keys: keys, Err: m.readErr}
	}
	values := make(Values, len(keys))
	for _, key := range keys {
		if raw, ok := m.data[key]; ok {
			values[key] = json.RawMessage(append([]byte(nil), raw...))
		}
	}
	return values, nil
}

func (m *Memory) Set(ctx context.Context, entries map[string]any) error {
	keys := sortedKeys(entries)
	if err := ensureContext(ctx).Err(); err != nil {
		return &Error{Op: "set", Keys: keys, Err: err}
	}
	encoded, err := encodeEntries(entries)
	if err != nil {
		return &Error{Op: "set", Keys: keys, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return &Error{Op: "set", Keys: keys, Err: m.writeErr}
	}
	for key, raw := range encoded {
		m.data[key] = raw
	}
	m.writes++
	return nil
}

func (m *Memory) Remove(ctx context.Context, keys ...string) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return &Error{Op: "remove", Keys: keys, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return &Error{Op: "remove", Keys: keys, Err: m.writeErr}
	}
	for _, key := range keys {
		delete(m.data, key)
	}
	m.writes++
	return nil
}
