package main

import (
	"errors"
	"fmt"
	"log/slog"

	"coursesum/internal/config"
	"coursesum/internal/daemon"
	"coursesum/internal/kvstore"
	"coursesum/internal/services/llm"
)

// buildDaemon opens the store and wires the summarizer into a daemon. The
// daemon owns the store and closes it.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	store, err := kvstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	client := llm.FromConfig(cfg.GetLLM(), llm.WithLogger(logger))
	d, err := daemon.New(cfg, store, logger, client)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}
