package summaries

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one saved summary.
type Record struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
}

// Time returns the creation time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// NewID returns a time-ordered unique id (UUIDv7: millisecond time plus
// random bits).
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate summary id: %w", err)
	}
	return id.String(), nil
}
