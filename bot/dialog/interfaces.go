package dialog

import (
	"context"

	"ReturnsAgent/bot/card"
)

// FlowID is a unique identifier for a flow.
type FlowID string

// StepName names a step within a flow. Frames persist it next to the cursor
// so a resumed frame can be checked against the flow definition.
type StepName string

// Step is one stage of a flow.
type Step interface {
	// Name returns the step's identifier within its flow.
	Name() StepName

	// Run executes the step with the value produced by the previous
	// transition and returns what the engine should do next.
	Run(ctx context.Context, sc *StepContext, input Input) (Directive, error)
}

// Flow is an ordered list of steps.
type Flow interface {
	// ID returns the unique identifier for this flow.
	ID() FlowID

	// Steps returns the steps in execution order.
	Steps() []Step
}

// Responder delivers replies produced during a turn.
type Responder interface {
	SendText(ctx context.Context, text string) error
	SendCards(ctx context.Context, layout string, cards ...*card.Card) error
}

// Validator checks prompt input. It returns the accepted value handed to the
// next step, or false to re-prompt.
type Validator func(text string) (any, bool)

// Observer receives engine events; metrics implement it.
type Observer interface {
	ObserveDirective(flow, directive string)
}

// Status reports how a turn left the stack.
type Status int

const (
	// StatusWaiting means the top frame waits for the next activity.
	StatusWaiting Status = iota
	// StatusComplete means the root flow ended and the stack is empty.
	StatusComplete
)

func (s Status) String() string {
	if s == StatusComplete {
		return "complete"
	}
	return "waiting"
}
