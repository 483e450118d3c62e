package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "stop",
					"message": map[string]any{
						"content": content,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestSummarizeSendsPromptsAndHeaders(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-call" {
			t.Errorf("unexpected authorization %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Coursera Summarizer" {
			t.Errorf("unexpected X-Title %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		completionHandler(t, "## Key Points\n- one")(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-config", BaseURL: server.URL, Model: "demo-model", Title: "Coursera Summarizer"})
	summary, err := client.Summarize(context.Background(), "the lecture transcript", "sk-call")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "## Key Points\n- one" {
		t.Fatalf("unexpected summary %q", summary)
	}
	if captured.Model != "demo-model" || len(captured.Messages) != 2 {
		t.Fatalf("unexpected request %+v", captured)
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != SummarySystemPrompt {
		t.Fatalf("unexpected system message %+v", captured.Messages[0])
	}
	want := "Please summarize this transcript:\n\n---\nthe lecture transcript\n---"
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != want {
		t.Fatalf("unexpected user message %q", captured.Messages[1].Content)
	}
}

func TestSummarizeTrimsContent(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "  # Hi  "))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	summary, err := client.Summarize(context.Background(), "some transcript text", "")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "# Hi" {
		t.Fatalf("expected trimmed markdown, got %q", summary)
	}
}

func TestSummarizeHTTPErrorUsesProviderMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	_, err := client.Summarize(context.Background(), "some transcript text", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid key" {
		t.Fatalf("expected provider message, got %q", err.Error())
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected HTTPStatusError 401, got %#v", err)
	}
}

func TestSummarizeHTTPErrorFallsBackToStatus(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "no body", body: ""},
		{name: "html body", body: "<html>bad gateway</html>"},
		{name: "json without message", body: `{"error":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "demo"})
			_, err := client.Summarize(context.Background(), "some transcript text", "")
			if err == nil || err.Error() != "API Error 502: Bad Gateway" {
				t.Fatalf("expected status fallback, got %v", err)
			}
		})
	}
}

func TestSummarizeEmptyCompletion(t *testing.T) {
	cases := map[string]any{
		"empty content": map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": "   "}}}},
		"no choices":    map[string]any{"choices": []any{}},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(payload)
			}))
			defer server.Close()

			client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "demo"})
			_, err := client.Summarize(context.Background(), "some transcript text", "")
			if !errors.Is(err, ErrEmptyCompletion) {
				t.Fatalf("expected ErrEmptyCompletion, got %v", err)
			}
			var transportErr *TransportError
			if errors.As(err, &transportErr) {
				t.Fatalf("empty completion must not look like a transport error: %v", err)
			}
		})
	}
}

func TestSummarizeDeltaAndLegacyText(t *testing.T) {
	payloads := []map[string]any{
		{"choices": []any{map[string]any{"delta": map[string]any{"content": "from delta"}}}},
		{"choices": []any{map[string]any{"text": "from text"}}},
	}
	wants := []string{"from delta", "from text"}
	for i, payload := range payloads {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(payload)
		}))
		client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "demo"})
		got, err := client.Summarize(context.Background(), "some transcript text", "")
		server.Close()
		if err != nil || got != wants[i] {
			t.Fatalf("payload %d: got %q, %v", i, got, err)
		}
	}
}

func TestSummarizeBodyErrorOnSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"Insufficient credits","code":402}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "demo"})
	_, err := client.Summarize(context.Background(), "some transcript text", "")
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 402 || err.Error() != "Insufficient credits" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestSummarizeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: url, Model: "demo"})
	_, err := client.Summarize(context.Background(), "some transcript text", "")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
}

func TestSummarizeRequiresKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "demo"})
	if _, err := client.Summarize(context.Background(), "some transcript text", "  "); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			return
		}
		completionHandler(t, "## Summary")(w, r)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(3),
	)
	summary, err := client.Summarize(context.Background(), "some transcript text", "")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "## Summary" || calls != 2 {
		t.Fatalf("unexpected result %q after %d calls", summary, calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientDoesNotRetryByDefault(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	if _, err := client.Summarize(context.Background(), "some transcript text", ""); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "OK"))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background(), ""); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	err := client.HealthCheck(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "No auth credentials found") {
		t.Fatalf("expected health check to fail with provider message, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("parseRetryAfter(3) = %v, %v", d, ok)
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("expected invalid Retry-After to be rejected")
	}
}
