package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"coursesum/internal/kvstore"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
	llmCalls   *atomic.Int32
}

type cliTestOptions struct {
	apiKey  string
	content string
	status  int
}

func setupCLITestEnv(t *testing.T, opts cliTestOptions) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OPENROUTER_API_KEY", "")

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if opts.status != 0 && opts.status != http.StatusOK {
			w.WriteHeader(opts.status)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
			return
		}
		content := opts.content
		if content == "" {
			content = "OK"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
	t.Cleanup(server.Close)

	dataDir := filepath.Join(base, "data")
	configPath := filepath.Join(homeDir, ".config", "coursesum", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[llm]
api_key = %q
base_url = %q
model = "test-model"

[panel]
resize_debounce_ms = 5
settle_delay_ms = 0
`, dataDir, filepath.Join(base, "logs"), opts.apiKey, server.URL)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		dataDir:    dataDir,
		configPath: configPath,
		llmCalls:   calls,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writePage(t *testing.T, env *cliTestEnv, html string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "lecture.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// failSavedSummaryWrites makes every write of the saved-summaries key abort
// inside SQLite, leaving other keys writable.
func failSavedSummaryWrites(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}
	path := filepath.Join(env.dataDir, "store.db")
	store, err := kvstore.OpenPath(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	trigger := fmt.Sprintf(`CREATE TRIGGER fail_saved_summaries BEFORE INSERT ON kv
		WHEN NEW.key = '%s' BEGIN SELECT RAISE(ABORT, 'disk full'); END`, kvstore.KeySavedSummaries)
	if _, err := db.Exec(trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}
