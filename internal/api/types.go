package api

import (
	"coursesum/internal/panel"
	"coursesum/internal/workflow"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// SummaryItem describes a saved summary in a transport-friendly format.
type SummaryItem struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	CreatedAt string `json:"createdAt,omitempty"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Preview   string `json:"preview"`
	Summary   string `json:"summary"`
}

// SummaryListResponse wraps the saved summaries, newest first.
type SummaryListResponse struct {
	Items []SummaryItem `json:"items"`
}

// SummaryItemResponse wraps a single saved summary.
type SummaryItemResponse struct {
	Item SummaryItem `json:"item"`
}

// SummarizeRequest carries the host page a summary is requested for.
type SummarizeRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// SummarizeResponse is the panel view after a summarize run.
type SummarizeResponse struct {
	View     workflow.View `json:"view"`
	Markdown string        `json:"markdown,omitempty"`
	URL      string        `json:"url,omitempty"`
}

// SaveRequest carries a generated summary back for saving.
type SaveRequest struct {
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// PanelUpdateRequest applies panel interactions. Fields left empty are
// untouched; toggles run after explicit values.
type PanelUpdateRequest struct {
	Position       *panel.Position `json:"position,omitempty"`
	Size           *panel.Size     `json:"size,omitempty"`
	Mode           string          `json:"mode,omitempty"`
	Theme          string          `json:"theme,omitempty"`
	ToggleMinimize bool            `json:"toggleMinimize,omitempty"`
	ToggleTheme    bool            `json:"toggleTheme,omitempty"`
}

// PanelResponse reports the panel state held by the daemon.
type PanelResponse struct {
	State panel.State `json:"state"`
}

// APIKeyStatus reports which API key the daemon will use without revealing it.
type APIKeyStatus struct {
	Set    bool   `json:"set"`
	Source string `json:"source,omitempty"`
	Masked string `json:"masked,omitempty"`
}

// APIKeyUpdateRequest stores or clears the API key. An empty key clears it.
type APIKeyUpdateRequest struct {
	Key string `json:"key"`
}

// ErrorResponse is returned for failed requests. Status and Output carry the
// panel text for the failure when there is one.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
	Output string `json:"output,omitempty"`
}

// DaemonStatus aggregates runtime information for the bridge daemon.
type DaemonStatus struct {
	Running      bool   `json:"running"`
	PID          int    `json:"pid"`
	Bind         string `json:"bind"`
	StorePath    string `json:"storePath"`
	LockFilePath string `json:"lockFilePath"`
	Model        string `json:"model"`
	SavedCount   int    `json:"savedCount"`
}
