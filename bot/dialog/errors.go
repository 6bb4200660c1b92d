package dialog

import (
	"errors"
	"fmt"
)

var (
	ErrFlowNotFound      = errors.New("flow not registered")
	ErrStaleCursor       = errors.New("frame cursor does not match flow definition")
	ErrValidatorNotFound = errors.New("validator not registered")
	ErrTransitionBudget  = errors.New("transition budget exhausted")
)

// EngineError is a fatal inconsistency between persisted state and the
// registered flows. The turn must not be committed.
type EngineError struct {
	Flow FlowID
	Step StepName
	Err  error
}

func (e *EngineError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("dialog %s.%s: %v", e.Flow, e.Step, e.Err)
	}
	return fmt.Sprintf("dialog %s: %v", e.Flow, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
