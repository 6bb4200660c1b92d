package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ReturnsAgent/internal/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackPrediction = `{
  "kind": "ConversationResult",
  "result": {
    "query": "where is my return 123456 for nike",
    "prediction": {
      "topIntent": "TrackReturn",
      "projectKind": "Conversation",
      "intents": [
        {"category": "TrackReturn", "confidenceScore": 0.93},
        {"category": "CreateReturn", "confidenceScore": 0.04}
      ],
      "entities": [
        {"category": "ReturnOrderNumber", "text": "123456", "confidenceScore": 1},
        {"category": "Store", "text": "nike", "confidenceScore": 1},
        {"category": "ReturnReason", "text": "too big", "extraInformation": [{"extraInformationKind": "ListKey", "key": "TooBig"}]}
      ]
    }
  }
}`

func newCLUServer(t *testing.T, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(cluKeyHeader))
		assert.Equal(t, cluAPIVersion, r.URL.Query().Get("api-version"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestCLUAnalyzeConversation(t *testing.T) {
	var req map[string]any
	srv := newCLUServer(t, trackPrediction, &req)
	defer srv.Close()

	clu := NewCLU(CLUConfig{Endpoint: srv.URL, ApiKey: "secret", ProjectName: "returns", DeploymentName: "prod"}, logger.Discard())
	res, err := clu.AnalyzeConversation(context.Background(), "where is my return 123456 for nike")
	require.NoError(t, err)

	assert.Equal(t, IntentTrackReturn, res.Intent)
	assert.Equal(t, "123456", res.ReturnOrderNumber)
	assert.Equal(t, "nike", res.Store)
	assert.Equal(t, "TooBig", res.ReturnReason)
	assert.Equal(t, "Conversation", req["kind"])
}

func TestCLUShortTextSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	clu := NewCLU(CLUConfig{Endpoint: srv.URL, ApiKey: "secret"}, logger.Discard())
	res, err := clu.AnalyzeConversation(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, IntentNone, res.Intent)
	assert.False(t, called)
}

func TestCLULowConfidence(t *testing.T) {
	body := `{"result":{"prediction":{"topIntent":"CreateReturn","intents":[{"category":"CreateReturn","confidenceScore":0.55}],"entities":[]}}}`
	srv := newCLUServer(t, body, nil)
	defer srv.Close()

	clu := NewCLU(CLUConfig{Endpoint: srv.URL, ApiKey: "secret"}, logger.Discard())
	res, err := clu.AnalyzeConversation(context.Background(), "I would like to send something back")
	require.NoError(t, err)
	assert.Equal(t, IntentNone, res.Intent)
}

func TestCLUErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	clu := NewCLU(CLUConfig{Endpoint: srv.URL, ApiKey: "secret"}, logger.Discard())
	_, err := clu.AnalyzeConversation(context.Background(), "I would like to send something back")
	require.Error(t, err)
}

func TestCLUAnalyzeSentiment(t *testing.T) {
	body := `{"kind":"SentimentAnalysisResults","results":{"documents":[{"id":"1","sentiment":"positive","confidenceScores":{"positive":0.91,"neutral":0.05,"negative":0.04}}]}}`
	srv := newCLUServer(t, body, nil)
	defer srv.Close()

	clu := NewCLU(CLUConfig{Endpoint: srv.URL, ApiKey: "secret"}, logger.Discard())
	res, err := clu.AnalyzeSentiment(context.Background(), "great support, thanks")
	require.NoError(t, err)
	assert.Equal(t, IntentSendFeedback, res.Intent)
	assert.True(t, res.IsPositiveFeedback)
}
