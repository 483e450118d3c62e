// Package llm provides an OpenRouter chat-completion client for transcript
// summarization.
//
// # Request Shape
//
// Summarize sends two messages: a fixed system instruction asking for concise
// Markdown with headings and bullet points, and a user message wrapping the
// transcript in a "---" delimited block. Requests carry bearer authorization
// and the X-Title / HTTP-Referer headers OpenRouter uses to attribute traffic.
//
// # Errors
//
// Non-2xx responses become *HTTPStatusError. Its Error() is the provider's
// error.message when the body carries one, otherwise "API Error <code>:
// <status text>"; a malformed body never masks the status. Network and decode
// failures become *TransportError. A response whose first choice has no
// content yields ErrEmptyCompletion.
//
// # Retry Behaviour
//
// With more than one attempt configured, the client retries HTTP 408/429/5xx
// and network timeouts with exponential backoff, honouring Retry-After. The
// default is a single attempt: a user click is not retried automatically.
// Context cancellation aborts retries immediately.
//
// # Entry Points
//
// NewClient / FromConfig: construct a client.
// Client.Summarize: summarize one transcript.
// Client.HealthCheck: verify the API key and model answer at all.
package llm
