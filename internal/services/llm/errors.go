package llm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyCompletion means the request succeeded but carried no summary.
	ErrEmptyCompletion = errors.New("llm: empty completion")
	// ErrMissingAPIKey means no key was configured or supplied.
	ErrMissingAPIKey = errors.New("llm: api key required")
)

// HTTPStatusError is a non-success response from the completion endpoint.
type HTTPStatusError struct {
	StatusCode int
	// Status is the reason phrase, e.g. "Unauthorized".
	Status string
	// Message is the provider's error.message, when the body had one.
	Message    string
	Body       string
	RetryAfter time.Duration
}

func (e *HTTPStatusError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fmt.Sprintf("API Error %d: %s", e.StatusCode, e.Status)
}

// TransportError covers failures to reach the endpoint or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
