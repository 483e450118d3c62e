package transcript

import (
	"errors"
	"fmt"
)

var (
	// ErrContainerNotFound means the page has no transcript container.
	ErrContainerNotFound = errors.New("transcript container not found")
	// ErrNoPhrases means the container holds no phrase elements.
	ErrNoPhrases = errors.New("no phrases found in the transcript container")
	// ErrTooShort means the joined text is below the minimum length.
	ErrTooShort = errors.New("extracted transcript is too short or empty")
)

// ExtractionError carries the failing selector or the short text length.
type ExtractionError struct {
	Kind     error
	Selector string
	Length   int
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case ErrContainerNotFound, ErrNoPhrases:
		return fmt.Sprintf("%v (selector %q)", e.Kind, e.Selector)
	case ErrTooShort:
		return fmt.Sprintf("%v (length %d)", e.Kind, e.Length)
	default:
		return fmt.Sprint(e.Kind)
	}
}

func (e *ExtractionError) Unwrap() error { return e.Kind }
