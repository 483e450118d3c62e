package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"coursesum/internal/config"
	"coursesum/internal/kvstore"
	"coursesum/internal/logging"
	"coursesum/internal/services/llm"
)

// errReported marks failures whose explanation was already printed.
var errReported = errors.New("coursesum: failure reported")

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	storeMu sync.Mutex
	store   *kvstore.SQLite

	logger *slog.Logger
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openStore opens the key-value store once per invocation.
func (c *commandContext) openStore() (*kvstore.SQLite, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.store != nil {
		return c.store, nil
	}
	store, err := kvstore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.store = store
	return store, nil
}

func (c *commandContext) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	level := "warn"
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	format := "console"
	if cfg, err := c.ensureConfig(); err == nil {
		format = cfg.Logging.Format
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format})
	if err != nil {
		logger = logging.NewNop()
	}
	c.logger = logger
	return logger
}

func (c *commandContext) llmClient() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return llm.FromConfig(cfg.GetLLM(), llm.WithLogger(c.log())), nil
}

func (c *commandContext) close() error {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
