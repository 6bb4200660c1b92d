package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"ReturnsAgent/internal/lib/sl"

	"github.com/sashabaranov/go-openai"
)

const conversationPrompt = `You classify messages sent to an online store's returns assistant.
Reply with one JSON object and nothing else, using these keys:
"intent": one of "CreateReturn", "TrackReturn", "SendFeedback", "None";
"confidence": number between 0 and 1;
"store", "orderReference", "emailAddress", "returnOrderNumber", "returnReason", "productDescription": strings copied from the message, empty when absent.`

const sentimentPrompt = `Rate the sentiment of the customer's message.
Reply with one JSON object: {"positive": number, "negative": number, "neutral": number}, each between 0 and 1, summing to 1.`

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI classifies with a chat model in JSON mode.
type OpenAI struct {
	client chatCompleter
	model  string
	log    *slog.Logger
}

func NewOpenAI(apiKey, model string, log *slog.Logger) *OpenAI {
	return NewOpenAIWithConfig(openai.DefaultConfig(apiKey), model, log)
}

func NewOpenAIWithConfig(conf openai.ClientConfig, model string, log *slog.Logger) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(conf),
		model:  model,
		log:    log.With(sl.Module("nlu.openai")),
	}
}

func (o *OpenAI) complete(ctx context.Context, system, text string, out any) error {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai completion: no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("openai completion: decode %q: %w", content, err)
	}
	return nil
}

func (o *OpenAI) AnalyzeConversation(ctx context.Context, text string) (*Result, error) {
	if tooShort(text) {
		return None(), nil
	}

	var answer struct {
		Result
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	if err := o.complete(ctx, conversationPrompt, text, &answer); err != nil {
		return nil, err
	}
	o.log.Debug("conversation analyzed",
		slog.String("intent", answer.Intent),
		slog.Float64("confidence", answer.Confidence),
	)
	if answer.Confidence < MinConfidence {
		return None(), nil
	}
	res := answer.Result
	res.Intent = ParseIntent(answer.Intent)
	return &res, nil
}

func (o *OpenAI) AnalyzeSentiment(ctx context.Context, text string) (*Result, error) {
	var scores struct {
		Positive float64 `json:"positive"`
		Negative float64 `json:"negative"`
	}
	if err := o.complete(ctx, sentimentPrompt, text, &scores); err != nil {
		return nil, err
	}
	return sentiment(scores.Positive, scores.Negative), nil
}
