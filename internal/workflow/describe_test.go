package workflow_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"coursesum/internal/services/llm"
	"coursesum/internal/summaries"
	"coursesum/internal/transcript"
	"coursesum/internal/workflow"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus string
		wantOutput string
	}{
		{
			name:       "container missing",
			err:        &transcript.ExtractionError{Kind: transcript.ErrContainerNotFound, Selector: "div.phrases"},
			wantStatus: "Error: Transcript container not found.",
			wantOutput: "Please ensure the transcript panel is visible on the page.",
		},
		{
			name:       "no phrases",
			err:        &transcript.ExtractionError{Kind: transcript.ErrNoPhrases},
			wantStatus: "Error: No phrases found in the transcript container.",
			wantOutput: "The transcript appears to be empty.",
		},
		{
			name:       "too short",
			err:        &transcript.ExtractionError{Kind: transcript.ErrTooShort, Length: 7},
			wantStatus: "Error: Extracted transcript is too short or empty.",
			wantOutput: "(Extraction resulted in very short text. Length: 7)",
		},
		{
			name:       "missing key wrapped",
			err:        fmt.Errorf("summarize: %w", llm.ErrMissingAPIKey),
			wantStatus: "Error: API Key not set.",
			wantOutput: "Please set your OpenRouter API Key",
		},
		{
			name:       "empty completion",
			err:        llm.ErrEmptyCompletion,
			wantStatus: "Error: Failed to parse summary from API response.",
			wantOutput: "API Call Failed: Failed to parse summary from API response.",
		},
		{
			name:       "http status",
			err:        &llm.HTTPStatusError{StatusCode: 402, Message: "Insufficient credits"},
			wantStatus: "Error: Insufficient credits",
			wantOutput: "API Call Failed: Insufficient credits",
		},
		{
			name:       "transport",
			err:        &llm.TransportError{Op: "send request", Err: errors.New("connection refused")},
			wantStatus: "Error: send request: connection refused",
			wantOutput: "API Call Failed: send request: connection refused",
		},
		{
			name:       "nothing to save",
			err:        summaries.ErrNothingToSave,
			wantStatus: "Error: Nothing to save.",
			wantOutput: "Generate a summary before saving it.",
		},
		{
			name:       "store write",
			err:        &summaries.StoreWriteError{Op: "write", Err: errors.New("disk full")},
			wantStatus: "Error: Failed to save summary.",
			wantOutput: "write saved summaries: disk full",
		},
		{
			name:       "busy",
			err:        workflow.ErrBusy,
			wantStatus: "Busy: please wait for the current action to finish.",
			wantOutput: "Wait for the current action to finish.",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: "Error: boom",
			wantOutput: "boom",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := workflow.Describe(tc.err)
			if got.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q", got.Status, tc.wantStatus)
			}
			if !strings.HasPrefix(got.Output, tc.wantOutput) {
				t.Fatalf("output = %q, want prefix %q", got.Output, tc.wantOutput)
			}
			if got.OutputHTML == "" {
				t.Fatal("expected html output")
			}
		})
	}
}

func TestDescribeEscapesHTML(t *testing.T) {
	got := workflow.Describe(&llm.HTTPStatusError{StatusCode: 500, Message: "<script>x</script>"})
	if strings.Contains(got.OutputHTML, "<script>") {
		t.Fatalf("output html not escaped: %s", got.OutputHTML)
	}
	if (workflow.Describe(nil) != workflow.Description{}) {
		t.Fatal("expected empty description for nil error")
	}
}
