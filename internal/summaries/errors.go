package summaries

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToSave means there is no successful summary to persist.
	ErrNothingToSave = errors.New("nothing to save: summarize a transcript first")
	// ErrNotFound means no record has the requested id.
	ErrNotFound = errors.New("summary not found")
	// ErrDuplicateID means a record with the same id already exists.
	ErrDuplicateID = errors.New("summary id already exists")
)

// StoreWriteError reports a store failure while persisting the collection.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s saved summaries: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }
