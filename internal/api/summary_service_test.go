package api

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"coursesum/internal/kvstore"
	"coursesum/internal/summaries"
)

func newCollection(t *testing.T) *summaries.Collection {
	t.Helper()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seq := 0
	return summaries.NewCollection(kvstore.NewMemory(),
		summaries.WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}),
		summaries.WithIDGenerator(func() (string, error) {
			seq++
			return fmt.Sprintf("id-%d", seq), nil
		}),
	)
}

func TestSummaryServiceListNewestFirst(t *testing.T) {
	svc := NewSummaryService(newCollection(t))
	ctx := context.Background()
	if _, err := svc.Save(ctx, "# First lecture\n\nIntro text.", "https://example.com/learn/a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Save(ctx, "No heading here.", "https://example.com/learn/b"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "id-2" || items[1].ID != "id-1" {
		t.Fatalf("expected newest first, got %s then %s", items[0].ID, items[1].ID)
	}
	if items[1].Title != "First lecture" || items[1].Preview != "Intro text." {
		t.Fatalf("unexpected derived fields %+v", items[1])
	}
	if items[0].Title != "b" {
		t.Fatalf("expected url fallback title, got %q", items[0].Title)
	}
	if _, ok := ParseTimestamp(items[0].CreatedAt); !ok {
		t.Fatalf("unparseable createdAt %q", items[0].CreatedAt)
	}
}

func TestSummaryServiceDescribeAndRemove(t *testing.T) {
	svc := NewSummaryService(newCollection(t))
	ctx := context.Background()
	saved, err := svc.Save(ctx, "# Keep", "https://example.com/x")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	item, err := svc.Describe(ctx, saved.ID)
	if err != nil || item == nil || item.Summary != "# Keep" {
		t.Fatalf("Describe = %+v, %v", item, err)
	}
	missing, err := svc.Describe(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v, %v", missing, err)
	}

	removed, err := svc.Remove(ctx, "nope")
	if err != nil || removed {
		t.Fatalf("Remove(unknown) = %v, %v", removed, err)
	}
	removed, err = svc.Remove(ctx, saved.ID)
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	items, _ := svc.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d", len(items))
	}
}

func TestSummaryServiceSaveRejectsEmpty(t *testing.T) {
	svc := NewSummaryService(newCollection(t))
	if _, err := svc.Save(context.Background(), "   ", "u"); err == nil {
		t.Fatal("expected error for empty summary")
	}
}

func TestNilSummaryService(t *testing.T) {
	var svc *SummaryService
	items, err := svc.List(context.Background())
	if err != nil || items != nil {
		t.Fatalf("nil service List = %v, %v", items, err)
	}
	if NewSummaryService(nil) != nil {
		t.Fatal("expected nil service for nil store")
	}
}

func TestSummaryPreviewTruncates(t *testing.T) {
	long := strings.Repeat("word ", 50)
	got := SummaryPreview("## Heading\n- "+long, 20)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) > 21 {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := SummaryPreview("* one\n* two", 0); got != "one two" {
		t.Fatalf("unexpected preview %q", got)
	}
}

func TestSummaryTitleFallbacks(t *testing.T) {
	cases := []struct {
		summary string
		url     string
		want    string
	}{
		{"## Key Points\ntext", "", "Key Points"},
		{"#\nplain", "https://www.coursera.org/learn/ml/lecture/abc", "abc"},
		{"plain", "https://www.coursera.org/", "www.coursera.org"},
		{"plain", "", "Untitled"},
	}
	for _, tc := range cases {
		if got := SummaryTitle(tc.summary, tc.url); got != tc.want {
			t.Fatalf("SummaryTitle(%q, %q) = %q, want %q", tc.summary, tc.url, got, tc.want)
		}
	}
}
