package topology

import (
	"errors"
	"fmt"
)

// ErrUnknownID marks topology inconsistencies: a collaborator referenced a
// terminal or cell id that was never registered. This is fatal for the run.
var ErrUnknownID = errors.New("unknown topology id")

// UnknownTerminalError wraps ErrUnknownID with the offending terminal id.
func UnknownTerminalError(id string) error {
	return fmt.Errorf("%w: terminal %q", ErrUnknownID, id)
}

// UnknownCellError wraps ErrUnknownID with the offending cell id.
func UnknownCellError(id string) error {
	return fmt.Errorf("%w: cell %q", ErrUnknownID, id)
}
