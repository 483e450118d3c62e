package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
	// APIToken, when set, is required as a bearer token on bridge requests.
	APIToken string `toml:"api_token"`
	// APIOrigins lists the page origins allowed to call the bridge from a
	// browser.
	APIOrigins []string `toml:"api_origins"`
}

// LLM contains the summarization endpoint connection settings.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Extractor contains the DOM contract used to locate transcript phrases.
type Extractor struct {
	ContainerSelector string `toml:"container_selector"`
	PhraseSelector    string `toml:"phrase_selector"`
	MinLength         int    `toml:"min_length"`
}

// Panel contains timing for panel layout persistence.
type Panel struct {
	// ResizeDebounceMS collapses bursts of resize events into one write.
	ResizeDebounceMS int `toml:"resize_debounce_ms"`
	// SettleDelayMS defers the geometry read until layout has settled.
	SettleDelayMS int `toml:"settle_delay_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for coursesum.
//
// Configuration sections by subsystem:
//   - Paths: data directory (key-value store, daemon lock), logs, bridge bind address
//   - LLM: OpenRouter chat-completion settings
//   - Extractor: transcript container/phrase selectors and minimum length
//   - Panel: resize debounce and layout settle delays
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	LLM       LLM       `toml:"llm"`
	Extractor Extractor `toml:"extractor"`
	Panel     Panel     `toml:"panel"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/coursesum/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config %q: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("coursesum.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the SQLite key-value store.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.DataDir, "store.db")
}

// LockPath returns the bridge daemon's single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "coursesumd.lock")
}

// LogPath returns the log file the daemon appends to.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "coursesum.log")
}

// ResizeDebounce returns the panel resize debounce window.
func (c *Config) ResizeDebounce() time.Duration {
	return time.Duration(c.Panel.ResizeDebounceMS) * time.Millisecond
}

// SettleDelay returns the deferral used before reading settled panel geometry.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Panel.SettleDelayMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the normalized settings handed to the LLM client.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	RetryAttempts  int
}

// GetLLM returns the summarization endpoint settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
		RetryAttempts:  c.LLM.RetryAttempts,
	}
}
