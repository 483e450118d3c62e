package transcript_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coursesum/internal/config"
	"coursesum/internal/transcript"
)

func defaultExtractor() transcript.Extractor {
	cfg := config.Default()
	return transcript.New(cfg.Extractor)
}

func TestExtractJoinsPhrasesInOrder(t *testing.T) {
	page := `<html><body>
	<div class="phrases">
	  <div class="rc-Phrase"><span>Welcome to the course on</span></div>
	  <div class="rc-Phrase">   </div>
	  <div class="rc-Phrase"><span>  distributed   systems. </span></div>
	  <div class="rc-Phrase">Let's begin.<br>Today we cover clocks.</div>
	</div>
	</body></html>`

	got, err := defaultExtractor().ExtractHTML(page)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	want := "Welcome to the course on distributed systems. Let's begin. Today we cover clocks."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractSkipsHiddenText(t *testing.T) {
	page := `<div class="phrases">
	  <div class="rc-Phrase">Visible words are kept here<span style="display: none">secret</span></div>
	  <div class="rc-Phrase" aria-hidden="true">screen reader duplicate</div>
	  <div class="rc-Phrase">and more<script>var x = 1;</script><span hidden>gone</span></div>
	</div>`

	got, err := defaultExtractor().ExtractHTML(page)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if got != "Visible words are kept here and more" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestJoinDropsEmptyAndTrims(t *testing.T) {
	if got := transcript.Join([]string{"Hello", "", " world "}); got != "Hello world" {
		t.Fatalf("Join = %q", got)
	}
}

func TestExtractHelloWorldWithoutMinimum(t *testing.T) {
	ext := defaultExtractor()
	ext.MinLength = 0
	page := `<div class="phrases"><div class="rc-Phrase">Hello</div><div class="rc-Phrase"></div><div class="rc-Phrase"> world </div></div>`

	got, err := ext.ExtractHTML(page)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractErrors(t *testing.T) {
	cases := []struct {
		name   string
		page   string
		want   error
		length int
	}{
		{name: "no container", page: `<div class="other"><div class="rc-Phrase">text</div></div>`, want: transcript.ErrContainerNotFound},
		{name: "empty container", page: `<div class="phrases"></div>`, want: transcript.ErrNoPhrases},
		{name: "container without matching phrases", page: `<div class="phrases"><p>not a phrase element at all, long enough</p></div>`, want: transcript.ErrNoPhrases},
		{name: "blank phrases", page: `<div class="phrases"><div class="rc-Phrase"> </div></div>`, want: transcript.ErrTooShort, length: 0},
		{name: "short", page: `<div class="phrases"><div class="rc-Phrase">Too short</div></div>`, want: transcript.ErrTooShort, length: 9},
		{name: "short multibyte", page: `<div class="phrases"><div class="rc-Phrase">你好世界再见了</div></div>`, want: transcript.ErrTooShort, length: 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := defaultExtractor().ExtractHTML(tc.page)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var exErr *transcript.ExtractionError
			if !errors.As(err, &exErr) {
				t.Fatalf("expected *ExtractionError, got %T", err)
			}
			if tc.want == transcript.ErrTooShort && exErr.Length != tc.length {
				t.Fatalf("length = %d, want %d", exErr.Length, tc.length)
			}
		})
	}
}

func TestExtractUsesFirstContainer(t *testing.T) {
	page := `<div class="phrases"><div class="rc-Phrase">First container transcript text.</div></div>
	<div class="phrases"><div class="rc-Phrase">Second container is ignored.</div></div>`

	got, err := defaultExtractor().ExtractHTML(page)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if strings.Contains(got, "Second") {
		t.Fatalf("expected only first container, got %q", got)
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<div class="phrases"><div class="rc-Phrase">Fetched lecture transcript text.</div></div>`))
	}))
	defer srv.Close()

	fetcher := transcript.NewFetcher(5 * time.Second)
	body, err := fetcher.Fetch(context.Background(), srv.URL+"/lecture")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	text, err := defaultExtractor().ExtractHTML(string(body))
	if err != nil || text != "Fetched lecture transcript text." {
		t.Fatalf("extract fetched page: %q, %v", text, err)
	}

	if _, err := fetcher.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}
