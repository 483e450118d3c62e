// Package daemon runs coursesumd, the loopback bridge between the in-page
// script and the local store.
//
// It wires configuration, the key-value store, the summarizer, the panel
// controller, and one summarize/save session into a single lifecycle with
// flock-based locking to prevent multiple instances. The HTTP API exposes
// summarize and save, the saved-summaries collection, panel layout, and the
// stored API key. Browser calls are allowed from paths.api_origins (CORS
// with preflight), and paths.api_token guards every route but /healthz.
//
// Keep orchestration here: extraction, summarization, and persistence live in
// their own packages while the daemon handles startup, shutdown, and routing.
package daemon
