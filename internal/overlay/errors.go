package overlay

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEntry reports a translation entry or OCR region that does
	// not match the expected schema.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrInvalidConfig reports a configuration value the engine cannot use.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// EntryError identifies the record and field that failed validation. Kind
// names the record type ("entry" or "region"); empty means "entry".
type EntryError struct {
	Kind   string
	Index  int
	Field  string
	Reason string
}

func (e *EntryError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "entry"
	}
	return fmt.Sprintf("%s %d: field %q %s", kind, e.Index, e.Field, e.Reason)
}

// Unwrap lets callers match EntryError against ErrMalformedEntry.
func (e *EntryError) Unwrap() error {
	return ErrMalformedEntry
}

func invalidConfig(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
