package export

import (
	"errors"
	"fmt"
)

// ErrNoConversation is returned when an export is attempted on an empty
// conversation log. No artifact is produced.
var ErrNoConversation = errors.New("no conversation to export")

// WriteError represents a failure writing the exported artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("export write error %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
