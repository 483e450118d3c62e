package workflow

// SaveState is the save control's state for the current result.
type SaveState string

const (
	// SaveUnavailable means there is no result to save.
	SaveUnavailable SaveState = "unavailable"
	SaveReady       SaveState = "ready"
	SaveInProgress  SaveState = "saving"
	// SaveDone is terminal for the current result.
	SaveDone SaveState = "saved"
)

// View is what the panel shows.
type View struct {
	Status           string    `json:"status"`
	Output           string    `json:"output"`
	OutputHTML       string    `json:"output_html"`
	Busy             bool      `json:"busy"`
	SummarizeEnabled bool      `json:"summarize_enabled"`
	SaveState        SaveState `json:"save_state"`
	Warning          string    `json:"warning,omitempty"`
	SavedID          string    `json:"saved_id,omitempty"`
}

func initialView() View {
	return View{
		SummarizeEnabled: true,
		SaveState:        SaveUnavailable,
	}
}

// Status and output strings shown during a run.
const (
	StatusStarting       = "Starting..."
	StatusExtracting     = "Extracting transcript..."
	StatusExtracted      = "Transcript extracted successfully."
	StatusSending        = "Sending transcript to AI..."
	StatusDone           = "Summary generated!"
	StatusSaving         = "Saving summary..."
	StatusSaved          = "Summary saved!"
	OutputGenerating     = "Generating summary... Please wait."
	outputGeneratingHTML = "<p><i>Generating summary... Please wait.</i></p>"
)
