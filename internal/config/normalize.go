package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeExtractor()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	origins := make([]string, 0, len(c.Paths.APIOrigins))
	for _, origin := range c.Paths.APIOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.Paths.APIOrigins = origins
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.RetryAttempts == 0 {
		c.LLM.RetryAttempts = defaultLLMRetryAttempts
	}
}

func (c *Config) normalizeExtractor() {
	c.Extractor.ContainerSelector = strings.TrimSpace(c.Extractor.ContainerSelector)
	if c.Extractor.ContainerSelector == "" {
		c.Extractor.ContainerSelector = defaultContainerSelector
	}
	c.Extractor.PhraseSelector = strings.TrimSpace(c.Extractor.PhraseSelector)
	if c.Extractor.PhraseSelector == "" {
		c.Extractor.PhraseSelector = defaultPhraseSelector
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
