package api

import (
	"context"
	"strings"

	"coursesum/internal/kvstore"
)

// API key sources reported by APIKeyService.Status.
const (
	KeySourceStore  = "store"
	KeySourceConfig = "config"
)

// APIKeyService reads and writes the API key held in the key-value store.
type APIKeyService struct {
	store    kvstore.Store
	fallback string
}

// NewAPIKeyService constructs an APIKeyService. fallback is the configured key
// used when the store holds none.
func NewAPIKeyService(store kvstore.Store, fallback string) *APIKeyService {
	if store == nil {
		return nil
	}
	return &APIKeyService{store: store, fallback: strings.TrimSpace(fallback)}
}

// Status reports whether a key is available and where it comes from.
func (s *APIKeyService) Status(ctx context.Context) (APIKeyStatus, error) {
	if s == nil {
		return APIKeyStatus{}, nil
	}
	values, err := s.store.Get(ctx, kvstore.KeyAPIKey)
	if err != nil {
		return APIKeyStatus{}, err
	}
	if key, ok := values.String(kvstore.KeyAPIKey); ok && strings.TrimSpace(key) != "" {
		return APIKeyStatus{Set: true, Source: KeySourceStore, Masked: MaskKey(key)}, nil
	}
	if s.fallback != "" {
		return APIKeyStatus{Set: true, Source: KeySourceConfig, Masked: MaskKey(s.fallback)}, nil
	}
	return APIKeyStatus{}, nil
}

// Set stores key, or removes the stored key when key is blank.
func (s *APIKeyService) Set(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return s.store.Remove(ctx, kvstore.KeyAPIKey)
	}
	return s.store.Set(ctx, map[string]any{kvstore.KeyAPIKey: key})
}

// MaskKey hides all but the last four characters of key.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", 4) + key[len(key)-4:]
}
