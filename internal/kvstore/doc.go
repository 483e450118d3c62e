// Package kvstore persists small JSON values under string keys.
//
// It is the local key-value facility the rest of coursesum shares: the API
// key, the panel's geometry/mode/theme, and the saved-summaries collection all
// live here. Store is the contract; SQLite is the on-disk implementation used
// by the CLI and daemon, and Memory backs tests and ephemeral sessions.
//
// Values are stored as raw JSON so callers decode into their own types and
// decide how to treat malformed data. Multi-key writes are applied in one
// transaction, but read-modify-write sequences built on top of Get and Set are
// not atomic: two writers can race and the later write wins.
package kvstore
