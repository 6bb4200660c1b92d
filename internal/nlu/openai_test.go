package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ReturnsAgent/internal/lib/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.NotNil(t, req.ResponseFormat) {
			assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
}

func newTestOpenAI(url string) *OpenAI {
	conf := openai.DefaultConfig("test")
	conf.BaseURL = url + "/v1"
	return NewOpenAIWithConfig(conf, "", logger.Discard())
}

func TestOpenAIAnalyzeConversation(t *testing.T) {
	srv := newOpenAIServer(t, `{"intent":"CreateReturn","confidence":0.9,"store":"Nike","orderReference":"ORD-1","emailAddress":""}`)
	defer srv.Close()

	res, err := newTestOpenAI(srv.URL).AnalyzeConversation(context.Background(), "I want to return my Nike order ORD-1")
	require.NoError(t, err)
	assert.Equal(t, IntentCreateReturn, res.Intent)
	assert.Equal(t, "Nike", res.Store)
	assert.Equal(t, "ORD-1", res.OrderReference)
}

func TestOpenAILowConfidence(t *testing.T) {
	srv := newOpenAIServer(t, `{"intent":"TrackReturn","confidence":0.3}`)
	defer srv.Close()

	res, err := newTestOpenAI(srv.URL).AnalyzeConversation(context.Background(), "not sure what I want to do today")
	require.NoError(t, err)
	assert.Equal(t, IntentNone, res.Intent)
}

func TestOpenAIAnalyzeSentiment(t *testing.T) {
	srv := newOpenAIServer(t, `{"positive":0.1,"negative":0.8,"neutral":0.1}`)
	defer srv.Close()

	res, err := newTestOpenAI(srv.URL).AnalyzeSentiment(context.Background(), "terrible experience")
	require.NoError(t, err)
	assert.Equal(t, IntentSendFeedback, res.Intent)
	assert.False(t, res.IsPositiveFeedback)
}

func TestOpenAIInvalidJSON(t *testing.T) {
	srv := newOpenAIServer(t, `not json`)
	defer srv.Close()

	_, err := newTestOpenAI(srv.URL).AnalyzeSentiment(context.Background(), "whatever")
	require.Error(t, err)
}
