package nlu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSentiment(t *testing.T) {
	score := "0.7"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "documents:analyzeSentiment"))
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documentSentiment":{"score":` + score + `,"magnitude":0.9},"language":"en"}`))
	}))
	defer srv.Close()

	g, err := NewGoogleSentiment(context.Background(), "key", srv.URL+"/")
	require.NoError(t, err)

	res, err := g.AnalyzeSentiment(context.Background(), "lovely service")
	require.NoError(t, err)
	assert.True(t, res.IsPositiveFeedback)

	score = "-0.4"
	res, err = g.AnalyzeSentiment(context.Background(), "awful service")
	require.NoError(t, err)
	assert.False(t, res.IsPositiveFeedback)
}

type stubAnalyzer struct {
	conversation *Result
	sentiment    *Result
}

func (s stubAnalyzer) AnalyzeConversation(context.Context, string) (*Result, error) {
	return s.conversation, nil
}

func (s stubAnalyzer) AnalyzeSentiment(context.Context, string) (*Result, error) {
	return s.sentiment, nil
}

func TestComposite(t *testing.T) {
	c := &Composite{
		Conversation: stubAnalyzer{conversation: &Result{Intent: IntentTrackReturn}},
		Sentiment:    stubAnalyzer{sentiment: &Result{Intent: IntentSendFeedback, IsPositiveFeedback: true}},
	}
	res, err := c.AnalyzeConversation(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, IntentTrackReturn, res.Intent)

	res, err = c.AnalyzeSentiment(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, res.IsPositiveFeedback)
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentCreateReturn, ParseIntent("CreateReturn"))
	assert.Equal(t, IntentNone, ParseIntent("Greeting"))
	assert.Equal(t, IntentNone, ParseIntent(""))
}
