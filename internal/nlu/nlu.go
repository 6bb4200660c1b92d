package nlu

import (
	"context"
	"strings"
)

type Intent string

const (
	IntentNone         Intent = "None"
	IntentCreateReturn Intent = "CreateReturn"
	IntentTrackReturn  Intent = "TrackReturn"
	IntentSendFeedback Intent = "SendFeedback"
)

const (
	// MinTextLength is the shortest input sent for classification.
	MinTextLength = 20
	// MinConfidence is the lowest accepted top-intent score.
	MinConfidence = 0.7
)

// ParseIntent maps a model label to an Intent; unknown labels are IntentNone.
func ParseIntent(label string) Intent {
	switch Intent(strings.TrimSpace(label)) {
	case IntentCreateReturn:
		return IntentCreateReturn
	case IntentTrackReturn:
		return IntentTrackReturn
	case IntentSendFeedback:
		return IntentSendFeedback
	default:
		return IntentNone
	}
}

// Result is the outcome of classification. Flows carry it between each other
// as frame options and results.
type Result struct {
	Intent             Intent `json:"intent"`
	Store              string `json:"store,omitempty"`
	OrderReference     string `json:"orderReference,omitempty"`
	EmailAddress       string `json:"emailAddress,omitempty"`
	ReturnOrderNumber  string `json:"returnOrderNumber,omitempty"`
	ReturnReason       string `json:"returnReason,omitempty"`
	ProductDescription string `json:"productDescription,omitempty"`
	IsComplete         bool   `json:"isComplete,omitempty"`
	IsPositiveFeedback bool   `json:"isPositiveFeedback,omitempty"`
}

func None() *Result {
	return &Result{Intent: IntentNone}
}

type ConversationAnalyzer interface {
	AnalyzeConversation(ctx context.Context, text string) (*Result, error)
}

type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*Result, error)
}

// Classifier is what the dialog flows depend on.
type Classifier interface {
	ConversationAnalyzer
	SentimentAnalyzer
}

func tooShort(text string) bool {
	return len([]rune(text)) < MinTextLength
}

// sentiment builds the feedback result from class probabilities.
func sentiment(positive, negative float64) *Result {
	return &Result{Intent: IntentSendFeedback, IsPositiveFeedback: positive > negative}
}
