// Package config loads, normalizes, and validates coursesum configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY. The Config type centralizes every knob the CLI and the
// bridge daemon need: where the key-value store lives, how to reach the
// summarization endpoint, which selectors locate transcript phrases, and how
// aggressively panel resizes are debounced.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
