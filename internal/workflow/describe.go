package workflow

import (
	"errors"
	"fmt"
	"html"

	"coursesum/internal/services/llm"
	"coursesum/internal/summaries"
	"coursesum/internal/transcript"
)

var (
	// ErrBusy means the requested action is already running in this session.
	ErrBusy = errors.New("operation already in progress")
	// ErrAlreadySaved means the current result was saved earlier.
	ErrAlreadySaved = errors.New("summary already saved")
)

// Description is the status line and output text for a failure.
type Description struct {
	Status     string
	Output     string
	OutputHTML string
}

// Describe maps err to the status line and output explanation shown to the
// user.
func Describe(err error) Description {
	var (
		exErr     *transcript.ExtractionError
		statusErr *llm.HTTPStatusError
		transErr  *llm.TransportError
		writeErr  *summaries.StoreWriteError
	)
	switch {
	case err == nil:
		return Description{}
	case errors.Is(err, ErrBusy):
		return plain("Busy: please wait for the current action to finish.", "Wait for the current action to finish.")
	case errors.Is(err, ErrAlreadySaved):
		return plain("Summary already saved.", "This summary is already in your saved summaries.")
	case errors.Is(err, llm.ErrMissingAPIKey):
		return Description{
			Status:     "Error: API Key not set.",
			Output:     "Please set your OpenRouter API Key with `coursesum apikey set` or the [llm] api_key setting.",
			OutputHTML: "<p>Please set your OpenRouter API Key with <code>coursesum apikey set</code> or the <code>[llm] api_key</code> setting.</p>",
		}
	case errors.As(err, &exErr):
		switch exErr.Kind {
		case transcript.ErrContainerNotFound:
			return plain("Error: Transcript container not found.", "Please ensure the transcript panel is visible on the page.")
		case transcript.ErrNoPhrases:
			return plain("Error: No phrases found in the transcript container.", "The transcript appears to be empty.")
		default:
			return plain("Error: Extracted transcript is too short or empty.",
				fmt.Sprintf("(Extraction resulted in very short text. Length: %d)", exErr.Length))
		}
	case errors.Is(err, llm.ErrEmptyCompletion):
		return apiFailure("Failed to parse summary from API response.")
	case errors.As(err, &statusErr):
		return apiFailure(statusErr.Error())
	case errors.As(err, &transErr):
		return apiFailure(transErr.Error())
	case errors.Is(err, summaries.ErrNothingToSave):
		return plain("Error: Nothing to save.", "Generate a summary before saving it.")
	case errors.As(err, &writeErr):
		return plain("Error: Failed to save summary.", writeErr.Error())
	default:
		return plain("Error: "+err.Error(), err.Error())
	}
}

func plain(status, output string) Description {
	return Description{
		Status:     status,
		Output:     output,
		OutputHTML: "<p>" + html.EscapeString(output) + "</p>",
	}
}

func apiFailure(msg string) Description {
	escaped := html.EscapeString(msg)
	return Description{
		Status: "Error: " + msg,
		Output: "API Call Failed: " + msg,
		OutputHTML: "<p><b>API Call Failed:</b></p><p>" + escaped + "</p>" +
			"<p><small>Verify API key, funds, and model availability on OpenRouter.</small></p>",
	}
}
