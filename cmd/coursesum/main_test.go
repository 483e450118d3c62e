package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursesum/internal/api"
	"coursesum/internal/panel"
)

const lecturePage = `<html><body><div class="phrases">
<div class="rc-Phrase">Welcome to week two of machine learning.</div>
<div class="rc-Phrase">We will study gradient descent in depth.</div>
</div></body></html>`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{})

	out, _, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.dataDir)
	requireContains(t, out, "not created yet")

	if _, _, err := runCLI(t, env, "", "panel", "theme", "dark"); err != nil {
		t.Fatalf("panel theme: %v", err)
	}
	out, _, err = runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Stored keys:")
	requireContains(t, out, "theme")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestSummarizeFileAndSave(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{apiKey: "sk-config", content: "## Key Points\n- gradient descent"})
	page := writePage(t, env, lecturePage)

	out, errOut, err := runCLI(t, env, "", "summarize", page, "--html", "--save", "--url", "https://www.coursera.org/learn/ml/lecture/2")
	if err != nil {
		t.Fatalf("summarize: %v (stderr %s)", err, errOut)
	}
	requireContains(t, out, "<h2>Key Points</h2>")
	requireContains(t, errOut, "Transcript extracted successfully.")
	requireContains(t, errOut, "Summary saved!")

	out, _, err = runCLI(t, env, "", "saved", "list", "--json")
	if err != nil {
		t.Fatalf("saved list: %v", err)
	}
	var items []api.SummaryItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://www.coursera.org/learn/ml/lecture/2" || items[0].Title != "Key Points" {
		t.Fatalf("unexpected saved items %+v", items)
	}
}

func TestSummarizeKeepsOutputWhenSaveFails(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{apiKey: "sk-config", content: "## Key Points\n- gradient descent"})
	failSavedSummaryWrites(t, env)
	page := writePage(t, env, lecturePage)

	out, errOut, err := runCLI(t, env, "", "summarize", page, "--html", "--save")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported save failure, got %v", err)
	}
	requireContains(t, out, "<h2>Key Points</h2>")
	requireContains(t, errOut, "Error: Failed to save summary.")
	requireContains(t, errOut, "Retry saving the summary?")

	out, _, err = runCLI(t, env, "", "summarize", page, "--json", "--save")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported save failure, got %v", err)
	}
	var result summarizeResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result %q: %v", out, err)
	}
	if result.Markdown != "## Key Points\n- gradient descent" || result.SavedID != "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Status != "Error: Failed to save summary." || !strings.Contains(result.SaveError, "disk full") {
		t.Fatalf("expected save failure in result, got %+v", result)
	}

	out, _, _ = runCLI(t, env, "", "saved", "list")
	requireContains(t, out, "No summaries saved yet.")
}

func TestSummarizeFromStdinPrintsMarkdown(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{apiKey: "sk-config", content: "# Summary\n\nShort."})

	out, _, err := runCLI(t, env, lecturePage, "summarize", "-")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	requireContains(t, out, "Summary")
	requireContains(t, out, "Short.")
}

func TestSummarizeJSON(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{apiKey: "sk-config", content: "# Title"})
	page := writePage(t, env, lecturePage)

	out, _, err := runCLI(t, env, "", "summarize", page, "--json")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	var result summarizeResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result %q: %v", out, err)
	}
	if result.Markdown != "# Title" || result.Status != "Summary generated!" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSummarizeFailuresExplain(t *testing.T) {
	cases := []struct {
		name     string
		opts     cliTestOptions
		page     string
		want     string
		wantLLMs int32
	}{
		{
			name: "no container",
			opts: cliTestOptions{apiKey: "sk-config"},
			page: "<html><body><p>no transcript</p></body></html>",
			want: "Please ensure the transcript panel is visible on the page.",
		},
		{
			name: "missing key",
			opts: cliTestOptions{},
			page: lecturePage,
			want: "Please set your OpenRouter API Key",
		},
		{
			name:     "provider rejects key",
			opts:     cliTestOptions{apiKey: "sk-bad", status: 401},
			page:     lecturePage,
			want:     "API Call Failed: invalid key",
			wantLLMs: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupCLITestEnv(t, tc.opts)
			page := writePage(t, env, tc.page)
			_, errOut, err := runCLI(t, env, "", "summarize", page)
			if !errors.Is(err, errReported) {
				t.Fatalf("expected reported failure, got %v", err)
			}
			requireContains(t, errOut, tc.want)
			if got := env.llmCalls.Load(); got != tc.wantLLMs {
				t.Fatalf("expected %d LLM calls, got %d", tc.wantLLMs, got)
			}
		})
	}
}

func TestSavedShowDeleteClear(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{apiKey: "sk-config", content: "# Lecture Notes\n\nBody text."})
	page := writePage(t, env, lecturePage)
	for range 2 {
		if _, _, err := runCLI(t, env, "", "summarize", page, "--save"); err != nil {
			t.Fatalf("summarize --save: %v", err)
		}
	}

	out, _, err := runCLI(t, env, "", "saved", "list")
	if err != nil {
		t.Fatalf("saved list: %v", err)
	}
	requireContains(t, out, "Lecture Notes")

	out, _, err = runCLI(t, env, "", "saved", "show", "1", "--raw")
	if err != nil {
		t.Fatalf("saved show: %v", err)
	}
	if strings.TrimSpace(out) != "# Lecture Notes\n\nBody text." {
		t.Fatalf("unexpected raw summary %q", out)
	}

	out, _, err = runCLI(t, env, "n\n", "saved", "delete", "1")
	if err != nil {
		t.Fatalf("saved delete (declined): %v", err)
	}
	requireContains(t, out, "Cancelled.")

	out, _, err = runCLI(t, env, "", "saved", "delete", "1", "--yes")
	if err != nil {
		t.Fatalf("saved delete: %v", err)
	}
	requireContains(t, out, "Deleted summary")

	if _, _, err := runCLI(t, env, "", "saved", "show", "5"); err == nil {
		t.Fatal("expected out-of-range error")
	}

	out, _, err = runCLI(t, env, "y\n", "saved", "clear")
	if err != nil {
		t.Fatalf("saved clear: %v", err)
	}
	requireContains(t, out, "All summaries deleted.")

	out, _, _ = runCLI(t, env, "", "saved", "list")
	requireContains(t, out, "No summaries saved yet.")
}

func TestPanelMoveClampsToViewport(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{})

	out, _, err := runCLI(t, env, "", "panel", "move", "--viewport", "800x600", "--", "5000", "-20")
	if err != nil {
		t.Fatalf("panel move: %v", err)
	}
	requireContains(t, out, "top 560px, left 0px")

	if _, _, err := runCLI(t, env, "", "panel", "move", "--viewport", "wide", "1", "2"); err == nil {
		t.Fatal("expected error for malformed viewport")
	}
}

func TestPanelCommands(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{})

	if _, _, err := runCLI(t, env, "", "panel", "move", "10", "20px"); err != nil {
		t.Fatalf("panel move: %v", err)
	}
	out, _, err := runCLI(t, env, "", "panel", "theme")
	if err != nil {
		t.Fatalf("panel theme: %v", err)
	}
	requireContains(t, out, "Dark")

	if _, _, err := runCLI(t, env, "", "panel", "minimize"); err != nil {
		t.Fatalf("panel minimize: %v", err)
	}
	_, errOut, err := runCLI(t, env, "", "panel", "resize", "300", "400")
	if err != nil {
		t.Fatalf("panel resize while minimized: %v", err)
	}
	requireContains(t, errOut, "size not stored")

	if _, _, err := runCLI(t, env, "", "panel", "minimize", "--set", "maximized"); err != nil {
		t.Fatalf("panel minimize --set: %v", err)
	}
	if _, _, err := runCLI(t, env, "", "panel", "resize", "300", "400"); err != nil {
		t.Fatalf("panel resize: %v", err)
	}

	out, _, err = runCLI(t, env, "", "panel", "show", "--json")
	if err != nil {
		t.Fatalf("panel show: %v", err)
	}
	var state panel.State
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("decode state %q: %v", out, err)
	}
	if state.Position == nil || state.Position.Top != "10px" || state.Position.Left != "20px" {
		t.Fatalf("unexpected position %+v", state.Position)
	}
	if state.Size == nil || state.Size.Width != "300px" || state.Size.Height != "400px" {
		t.Fatalf("unexpected size %+v", state.Size)
	}
	if state.Theme != panel.ThemeDark || state.Mode != panel.ModeMaximized {
		t.Fatalf("unexpected state %+v", state)
	}

	if _, _, err := runCLI(t, env, "", "panel", "theme", "purple"); err == nil {
		t.Fatal("expected invalid theme error")
	}
}

func TestAPIKeyCommands(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{content: "OK"})

	out, _, err := runCLI(t, env, "", "apikey", "show")
	if err != nil {
		t.Fatalf("apikey show: %v", err)
	}
	requireContains(t, out, "not set")

	out, _, err = runCLI(t, env, "", "apikey", "set", "sk-or-v1-abcdefgh")
	if err != nil {
		t.Fatalf("apikey set: %v", err)
	}
	requireContains(t, out, "API Key saved!")

	out, _, err = runCLI(t, env, "", "apikey", "show")
	if err != nil {
		t.Fatalf("apikey show: %v", err)
	}
	requireContains(t, out, "sk-****efgh")
	requireContains(t, out, "Store")
	if strings.Contains(out, "abcdefgh") {
		t.Fatalf("key leaked in output %q", out)
	}

	out, _, err = runCLI(t, env, "", "apikey", "test")
	if err != nil {
		t.Fatalf("apikey test: %v", err)
	}
	requireContains(t, out, "accepted")
	requireContains(t, out, "test-model")

	out, _, err = runCLI(t, env, "", "apikey", "set", "--clear")
	if err != nil {
		t.Fatalf("apikey set --clear: %v", err)
	}
	requireContains(t, out, "API Key cleared.")
}

func TestAPIKeyTestFailure(t *testing.T) {
	env := setupCLITestEnv(t, cliTestOptions{apiKey: "sk-bad", status: 401})
	out, _, err := runCLI(t, env, "", "apikey", "test")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	requireContains(t, out, "Error: invalid key")
}
