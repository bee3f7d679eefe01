package etl

import (
	"fmt"
	"strings"
)

// PhaseError carries the phase an invocation failed in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", strings.ToLower(e.Phase.String()), e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
