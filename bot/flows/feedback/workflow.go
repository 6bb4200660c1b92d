package feedback

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/internal/lib/sl"
	"ReturnsAgent/internal/nlu"
)

const StepAnalyzeFeedback dialog.StepName = "analyze_feedback"

const (
	MsgPositive = "We're thrilled to hear that you had a great experience with our support team! Your satisfaction is our top priority. That's a fantastic suggestion! We're always excited to hear ideas from our valued customers. We'll definitely consider it."
	MsgNegative = "We're sorry to hear that you had a bad experience with our support team. We're always looking to improve our customer service, so we appreciate your feedback. We'll definitely consider it."
	MsgThanks   = "Thank you for sharing your feedback! What else can I do for you?"
)

type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*nlu.Result, error)
}

// Workflow answers a piece of feedback according to its sentiment. It is
// started with the feedback sentence as options.
type Workflow struct {
	steps []dialog.Step
}

func New(analyzer SentimentAnalyzer, log *slog.Logger) *Workflow {
	return &Workflow{
		steps: []dialog.Step{
			&AnalyzeFeedbackStep{analyzer: analyzer, log: log.With(slog.String("flow", string(flows.Feedback)))},
		},
	}
}

func (w *Workflow) ID() dialog.FlowID     { return flows.Feedback }
func (w *Workflow) Steps() []dialog.Step { return w.steps }

type AnalyzeFeedbackStep struct {
	analyzer SentimentAnalyzer
	log      *slog.Logger
}

func (s *AnalyzeFeedbackStep) Name() dialog.StepName { return StepAnalyzeFeedback }

func (s *AnalyzeFeedbackStep) Run(ctx context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	var sentence string
	if err := sc.Options(&sentence); err != nil {
		return dialog.Directive{}, err
	}

	reply := MsgNegative
	result, err := s.analyzer.AnalyzeSentiment(ctx, sentence)
	switch {
	case err != nil:
		s.log.Warn("sentiment analysis failed", sl.Err(err))
	case result.IsPositiveFeedback:
		reply = MsgPositive
	}
	if err := sc.SendText(ctx, reply); err != nil {
		return dialog.Directive{}, err
	}
	return dialog.Replace(flows.Main, flows.MainOptions{Message: MsgThanks}), nil
}
