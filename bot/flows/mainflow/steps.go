package mainflow

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/internal/lib/sl"
	"ReturnsAgent/internal/nlu"
)

// GreetStep prompts with the message the flow was started with, or passes the
// current activity text straight to routing.
type GreetStep struct{}

func (s *GreetStep) Name() dialog.StepName { return StepGreet }

func (s *GreetStep) Run(_ context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	var opts flows.MainOptions
	if err := sc.Options(&opts); err != nil {
		return dialog.Directive{}, err
	}
	if opts.Message != "" {
		return dialog.Prompt(opts.Message), nil
	}
	return dialog.Next(sc.Activity().Text), nil
}

// RouteStep classifies the text and starts the matching flow.
type RouteStep struct {
	classifier Classifier
	log        *slog.Logger
}

func (s *RouteStep) Name() dialog.StepName { return StepRoute }

func (s *RouteStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	text, _ := input.String()

	result, err := s.classifier.AnalyzeConversation(ctx, text)
	if err != nil {
		s.log.Warn("classification failed", sl.Err(err))
		result = nlu.None()
	}
	s.log.Debug("classified",
		slog.String("intent", string(result.Intent)),
		slog.String("user", sc.Activity().UserID),
	)

	switch result.Intent {
	case nlu.IntentCreateReturn:
		return dialog.Begin(flows.Login, result), nil
	case nlu.IntentTrackReturn:
		return dialog.Begin(flows.TrackReturnOrder, result), nil
	case nlu.IntentSendFeedback:
		if sc.ParentFlow() != flows.Feedback {
			return dialog.Begin(flows.Feedback, text), nil
		}
	}
	return dialog.Prompt(MsgHowCanIHelp), nil
}

// OutroStep decides what follows a finished child flow.
type OutroStep struct{}

func (s *OutroStep) Name() dialog.StepName { return StepOutro }

func (s *OutroStep) Run(_ context.Context, _ *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	// reply to the routing prompt: classify it from the top
	if _, ok := input.String(); ok {
		return dialog.Replace(flows.Main, nil), nil
	}

	var result nlu.Result
	if err := input.Decode(&result); err != nil {
		return dialog.Directive{}, err
	}

	switch {
	case result.Intent == nlu.IntentCreateReturn:
		return dialog.Begin(flows.CreateReturn, &result), nil
	case result.Intent == nlu.IntentTrackReturn && result.IsComplete:
		return dialog.Replace(flows.Main, flows.MainOptions{Message: MsgFeedbackNudge}), nil
	default:
		return dialog.Replace(flows.Main, flows.MainOptions{Message: flows.MsgWhatElse}), nil
	}
}
