package nlu

import (
	"context"
	"fmt"

	"google.golang.org/api/language/v1"
	"google.golang.org/api/option"
)

// GoogleSentiment scores sentiment with the Cloud Natural Language API.
// A document score above zero counts as positive.
type GoogleSentiment struct {
	svc *language.Service
}

func NewGoogleSentiment(ctx context.Context, apiKey, endpoint string) (*GoogleSentiment, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := language.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google language client: %w", err)
	}
	return &GoogleSentiment{svc: svc}, nil
}

func (g *GoogleSentiment) AnalyzeSentiment(ctx context.Context, text string) (*Result, error) {
	resp, err := g.svc.Documents.AnalyzeSentiment(&language.AnalyzeSentimentRequest{
		Document: &language.Document{
			Content: text,
			Type:    "PLAIN_TEXT",
		},
		EncodingType: "UTF8",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google analyze sentiment: %w", err)
	}
	if resp.DocumentSentiment == nil {
		return nil, fmt.Errorf("google analyze sentiment: empty result")
	}
	score := resp.DocumentSentiment.Score
	return sentiment(max(score, 0), max(-score, 0)), nil
}
