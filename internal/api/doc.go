// Package api defines wire-format types and services for the bridge daemon's
// HTTP API. It translates saved summaries, panel state, and key status into
// transport-friendly DTOs that the in-page script and the CLI can render
// without coupling to internal types.
//
// # Key Types
//
// SummaryItem: saved summary with a derived title, preview, and RFC3339 time.
//
// SummarizeRequest/SummarizeResponse: host page in, panel view out.
//
// PanelUpdateRequest/PanelResponse: drag, resize, minimize, and theme
// interactions and the resulting panel state.
//
// APIKeyStatus: whether a key is set and where it comes from, masked.
//
// # Services
//
// SummaryService wraps the saved-summary collection; APIKeyService wraps the
// stored key with the configured fallback.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript consumers. Workflow views and
// panel state keep their own JSON shapes since the in-page script reads them
// directly.
package api
