package testsupport

import (
	"path/filepath"
	"testing"

	"coursesum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Panel.ResizeDebounceMS = 5
	cfgVal.Panel.SettleDelayMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIKey sets the configured OpenRouter key.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}

// WithBaseURL points the LLM client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithMinLength overrides the transcript minimum length.
func WithMinLength(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extractor.MinLength = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// WithAPIToken sets the bearer token the bridge daemon requires.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}
