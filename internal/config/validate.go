package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. A missing API key is not a
// validation failure: the key may be stored later with `coursesum apikey set`.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validatePanel(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind must be host:port: %w", err)
	}
	for _, origin := range c.Paths.APIOrigins {
		if origin == "*" {
			continue
		}
		parsed, err := url.Parse(origin)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" || (parsed.Path != "" && parsed.Path != "/") {
			return fmt.Errorf("paths.api_origins entries must be scheme://host origins, got %q", origin)
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	parsed, err := url.Parse(c.LLM.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("llm.base_url must be an absolute URL, got %q", c.LLM.BaseURL)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.RetryAttempts < 1 {
		return errors.New("llm.retry_attempts must be >= 1")
	}
	return nil
}

func (c *Config) validateExtractor() error {
	if c.Extractor.MinLength <= 0 {
		return errors.New("extractor.min_length must be positive")
	}
	return nil
}

func (c *Config) validatePanel() error {
	if c.Panel.ResizeDebounceMS < 0 {
		return errors.New("panel.resize_debounce_ms must be >= 0")
	}
	if c.Panel.SettleDelayMS < 0 {
		return errors.New("panel.settle_delay_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
