package nlu

import "context"

// Composite pairs a conversation analyzer with a separate sentiment provider.
type Composite struct {
	Conversation ConversationAnalyzer
	Sentiment    SentimentAnalyzer
}

func (c *Composite) AnalyzeConversation(ctx context.Context, text string) (*Result, error) {
	return c.Conversation.AnalyzeConversation(ctx, text)
}

func (c *Composite) AnalyzeSentiment(ctx context.Context, text string) (*Result, error) {
	return c.Sentiment.AnalyzeSentiment(ctx, text)
}
