package mainflow

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/internal/nlu"
)

// Step names
const (
	StepGreet dialog.StepName = "greet"
	StepRoute dialog.StepName = "route"
	StepOutro dialog.StepName = "outro"
)

const (
	MsgHowCanIHelp   = "What can I help you with today?"
	MsgFeedbackNudge = "Thank you for using our bot service. Don't forget to leave a feedback of your experience. Is there anything else I can do for you?"
)

// Classifier defines the interface for intent detection.
type Classifier interface {
	AnalyzeConversation(ctx context.Context, text string) (*nlu.Result, error)
}

// Workflow greets the user, routes the classified intent to a child flow and
// restarts itself when that flow finishes.
type Workflow struct {
	steps []dialog.Step
}

func New(classifier Classifier, log *slog.Logger) *Workflow {
	log = log.With(slog.String("flow", string(flows.Main)))
	return &Workflow{
		steps: []dialog.Step{
			&GreetStep{},
			&RouteStep{classifier: classifier, log: log},
			&OutroStep{},
		},
	}
}

func (w *Workflow) ID() dialog.FlowID     { return flows.Main }
func (w *Workflow) Steps() []dialog.Step { return w.steps }
