package panel

import (
	"errors"
	"fmt"
)

// ErrClosed is reported when an interaction arrives after Close.
var ErrClosed = errors.New("panel controller closed")

// CorruptValueError reports a stored layout value that could not be used. The
// controller falls back to the default for that field.
type CorruptValueError struct {
	Key string
	Raw string
	Err error
}

func (e *CorruptValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt %s value %s: %v", e.Key, e.Raw, e.Err)
	}
	return fmt.Sprintf("corrupt %s value %s", e.Key, e.Raw)
}

func (e *CorruptValueError) Unwrap() error { return e.Err }

// PersistError reports a failed background read or write of panel state.
type PersistError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("panel %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
