package render_test

import (
	"strings"
	"testing"
	"time"

	"coursesum/internal/render"
)

func TestHTMLRendersHeadingsAndLists(t *testing.T) {
	result := render.HTML("## Key Points\n\n- first\n- second\n")
	if result.Fallback || result.Warning != "" {
		t.Fatalf("unexpected fallback: %+v", result)
	}
	if !strings.Contains(result.Markup, "<h2>Key Points</h2>") {
		t.Fatalf("missing heading: %q", result.Markup)
	}
	if !strings.Contains(result.Markup, "<li>first</li>") {
		t.Fatalf("missing list item: %q", result.Markup)
	}
}

func TestHTMLDropsRawHTML(t *testing.T) {
	result := render.HTML("Hello <script>alert(1)</script> world")
	if strings.Contains(result.Markup, "<script>") {
		t.Fatalf("raw html should be skipped: %q", result.Markup)
	}
}

func TestHTMLFallsBackOnPanic(t *testing.T) {
	r := render.NewRendererWith(func([]byte) []byte { panic("bad input") }, nil)
	result := r.HTML("# <b>raw</b> & more")
	if !result.Fallback {
		t.Fatal("expected fallback")
	}
	if result.Warning != render.WarningFormatFailed {
		t.Fatalf("unexpected warning %q", result.Warning)
	}
	if result.Markup != "<pre># &lt;b&gt;raw&lt;/b&gt; &amp; more</pre>" {
		t.Fatalf("unexpected markup %q", result.Markup)
	}
}

func TestHTMLWithoutRenderer(t *testing.T) {
	result := render.NewRendererWith(nil, nil).HTML("plain")
	if !result.Fallback || result.Warning != render.WarningRendererMissing {
		t.Fatalf("expected missing-renderer fallback, got %+v", result)
	}
	if result.Markup != "<pre>plain</pre>" {
		t.Fatalf("unexpected markup %q", result.Markup)
	}
}

func TestTerminalRendersText(t *testing.T) {
	result := render.Terminal("# Title\n\nSome body text.", render.StyleNoTTY, 60)
	if result.Fallback {
		t.Fatalf("unexpected fallback: %+v", result)
	}
	if !strings.Contains(result.Markup, "Title") || !strings.Contains(result.Markup, "Some body text.") {
		t.Fatalf("unexpected terminal output %q", result.Markup)
	}
}

func TestCardEscapesAndRenders(t *testing.T) {
	r := render.NewRenderer(nil)
	ts := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	card, err := r.Card(render.CardData{
		ID:        "abc",
		Timestamp: ts.UnixMilli(),
		URL:       "https://www.coursera.org/learn/x?a=1&b=2",
		Summary:   "## Summary\n\n- point",
	}, time.UTC)
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	html := string(card)
	for _, want := range []string{
		`data-id="abc"`,
		`datetime="2026-03-04T15:30:00Z"`,
		"Mar 4, 2026 3:30 PM",
		"a=1&amp;b=2",
		"<h2>Summary</h2>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("card missing %q:\n%s", want, html)
		}
	}
}

func TestCardRejectsJavascriptURL(t *testing.T) {
	card, err := render.NewRenderer(nil).Card(render.CardData{ID: "x", URL: "javascript:alert(1)", Summary: "s"}, nil)
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if strings.Contains(string(card), `href="javascript:`) {
		t.Fatalf("unsafe href rendered: %s", card)
	}
}

func TestPageEmptyState(t *testing.T) {
	page, err := render.NewRenderer(nil).Page(nil, nil)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !strings.Contains(string(page), "No summaries saved yet.") {
		t.Fatalf("expected empty message, got %s", page)
	}
}
