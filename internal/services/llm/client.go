package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coursesum/internal/config"
	"coursesum/internal/logging"
)

const (
	defaultBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 1
	maxResponseBytes      = 8 << 20
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// DefaultHTTPTimeout returns the default timeout used for LLM requests.
func DefaultHTTPTimeout() time.Duration {
	return defaultHTTPTimeout
}

// Client wraps the OpenRouter chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "llm")
	}
}

// WithRetryMaxAttempts overrides the retry count (defaults to 1, no retry).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewComponentLogger(nil, "llm"),
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// FromConfig builds a client from the [llm] config section.
func FromConfig(cfg config.LLMConfig, opts ...Option) *Client {
	base := []Option{WithRetryMaxAttempts(cfg.RetryAttempts)}
	return NewClient(Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, append(base, opts...)...)
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Summarize asks the model for a Markdown summary of transcript. apiKey
// overrides the configured key when non-empty. The returned Markdown is
// trimmed and never empty.
func (c *Client) Summarize(ctx context.Context, transcript, apiKey string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", errors.New("llm summarize: transcript required")
	}
	key := c.resolveKey(apiKey)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SummarySystemPrompt},
			{Role: "user", Content: SummaryUserPrompt(transcript)},
		},
	}

	start := time.Now()
	content, err := c.completionContentWithRetry(ctx, payload, key)
	if err != nil {
		return "", err
	}
	c.logger.Info("summary received",
		logging.String("model", c.cfg.Model),
		logging.Int("transcript_chars", len(transcript)),
		logging.Int("summary_chars", len(content)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return content, nil
}

// HealthCheck issues a tiny completion to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context, apiKey string) error {
	key := c.resolveKey(apiKey)
	if key == "" {
		return ErrMissingAPIKey
	}
	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: healthCheckPrompt},
		},
		MaxTokens: 16,
	}
	if _, err := c.completionContentWithRetry(ctx, payload, key); err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	return nil
}

func (c *Client) resolveKey(apiKey string) string {
	if key := strings.TrimSpace(apiKey); key != "" {
		return key
	}
	return c.cfg.APIKey
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
		// Some providers return the streaming schema (delta) even when
		// stream=false.
		Delta        chatCompletionMessage `json:"delta"`
		Text         string                `json:"text"`
		FinishReason string                `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type chatCompletionMessage struct {
	Content string `json:"content"`
	Refusal string `json:"refusal"`
}

type apiError struct {
	Message string `json:"message"`
	Code    any    `json:"code"`
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

func (c *Client) completionContentWithRetry(ctx context.Context, payload chatCompletionRequest, apiKey string) (string, error) {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		completion, err := c.sendChatRequestOnce(ctx, payload, apiKey)
		if err == nil {
			content, finishReason := firstCompletion(completion)
			if content != "" {
				return content, nil
			}
			c.logger.Debug("empty completion",
				logging.String("finish_reason", finishReason),
				logging.Int("choices", len(completion.Choices)),
			)
			err = ErrEmptyCompletion
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return "", err
		}
		logging.WarnWithContext(c.logger, "llm request failed; retrying", "llm_retry",
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err),
			logging.String(logging.FieldImpact, "summary delayed"),
			logging.String(logging.FieldErrorHint, "check OpenRouter status and rate limits"),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", &TransportError{Op: "llm retry", Err: err}
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return "", lastErr
}

// firstCompletion returns the trimmed content of the first choice.
func firstCompletion(completion chatCompletionResponse) (string, string) {
	if len(completion.Choices) == 0 {
		return "", ""
	}
	choice := completion.Choices[0]
	content := firstNonEmpty(choice.Message.Content, choice.Delta.Content, choice.Text)
	return content, strings.TrimSpace(choice.FinishReason)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (c *Client) sendChatRequestOnce(ctx context.Context, payload chatCompletionRequest, apiKey string) (chatCompletionResponse, error) {
	var completion chatCompletionResponse
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "")
	if err != nil {
		return completion, &TransportError{Op: "llm request: build url", Err: err}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return completion, fmt.Errorf("llm request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return completion, &TransportError{Op: "llm request: new request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
		req.Header.Set("Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return completion, &TransportError{Op: fmt.Sprintf("llm request (timeout=%s)", c.timeoutDuration()), Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return completion, &TransportError{Op: "llm request: read body", Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return completion, newHTTPStatusError(resp, body)
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return completion, &TransportError{Op: "llm request: decode response", Err: err}
	}
	if completion.Error != nil && strings.TrimSpace(completion.Error.Message) != "" {
		return completion, &HTTPStatusError{
			StatusCode: errorCode(completion.Error.Code, resp.StatusCode),
			Status:     statusText(resp),
			Message:    strings.TrimSpace(completion.Error.Message),
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return completion, nil
}

func newHTTPStatusError(resp *http.Response, body []byte) *HTTPStatusError {
	retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
	statusErr := &HTTPStatusError{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Body:       strings.TrimSpace(string(body)),
		RetryAfter: retryAfter,
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		statusErr.Message = strings.TrimSpace(envelope.Error.Message)
	}
	return statusErr
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func errorCode(code any, fallback int) int {
	switch v := code.(type) {
	case float64:
		if v >= 100 && v < 600 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n >= 100 && n < 600 {
			return n
		}
	}
	return fallback
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil {
		return defaultHTTPTimeout
	}
	if c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func (c *Client) retryAttempts() int {
	if c == nil {
		return 1
	}
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	if errors.Is(err, ErrEmptyCompletion) {
		return c.backoffDelay(attempt), true
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := defaultRetryBaseDelay
	maxDelay := defaultRetryMaxDelay
	if c != nil {
		if c.retryBaseDelay >= 0 {
			base = c.retryBaseDelay
		}
		if c.retryMaxDelay > 0 {
			maxDelay = c.retryMaxDelay
		}
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}

	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := defaultRetryMaxDelay
	if c != nil && c.retryMaxDelay > 0 {
		maxDelay = c.retryMaxDelay
	}
	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
