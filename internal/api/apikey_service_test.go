package api

import (
	"context"
	"testing"

	"coursesum/internal/kvstore"
)

func TestAPIKeyServiceSources(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	empty, err := NewAPIKeyService(store, "").Status(ctx)
	if err != nil || empty.Set {
		t.Fatalf("expected unset key, got %+v, %v", empty, err)
	}

	svc := NewAPIKeyService(store, "sk-config-1234")
	status, err := svc.Status(ctx)
	if err != nil || status.Source != KeySourceConfig || status.Masked != "sk-****1234" {
		t.Fatalf("unexpected config status %+v, %v", status, err)
	}

	if err := svc.Set(ctx, "  sk-or-v1-stored-9876 "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	status, _ = svc.Status(ctx)
	if status.Source != KeySourceStore || status.Masked != "sk-****9876" {
		t.Fatalf("stored key should win, got %+v", status)
	}

	if err := svc.Set(ctx, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	status, _ = svc.Status(ctx)
	if status.Source != KeySourceConfig {
		t.Fatalf("expected config fallback after clear, got %+v", status)
	}
}

func TestMaskKey(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"short":       "*****",
		"sk-abcdefgh": "sk-****efgh",
	}
	for in, want := range cases {
		if got := MaskKey(in); got != want {
			t.Fatalf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
