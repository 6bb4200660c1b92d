package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/config"
	"ReturnsAgent/internal/lib/logger"
	"ReturnsAgent/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	activities []entity.Activity
	resets     []string
	turnErr    error
}

func (f *fakeHandler) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token != "secret" {
		return nil, errors.New("api key not found")
	}
	return &entity.UserAuth{Username: "webchat", Token: token}, nil
}

func (f *fakeHandler) HandleActivity(_ context.Context, activity *entity.Activity) ([]channel.Reply, error) {
	f.activities = append(f.activities, *activity)
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return []channel.Reply{channel.TextReply("echo: " + activity.Text)}, nil
}

func (f *fakeHandler) ResetConversation(_ context.Context, ch, conversationID string) error {
	f.resets = append(f.resets, ch+"/"+conversationID)
	return nil
}

func (f *fakeHandler) StartConversation(_ context.Context, ch, conversationID string) ([]channel.Reply, error) {
	f.resets = append(f.resets, ch+"/"+conversationID)
	return []channel.Reply{channel.TextReply(channel.MsgWelcome)}, nil
}

func (f *fakeHandler) Transcript(_ context.Context, ch, conversationID string) ([]entity.TranscriptEntry, error) {
	return []entity.TranscriptEntry{
		{Channel: ch, ConversationID: conversationID, Direction: entity.DirectionIncoming, Text: "hi"},
	}, nil
}

func (f *fakeHandler) GenerateApiKey(_ context.Context, username string) (string, error) {
	return "key-" + username, nil
}

func newTestServer(t *testing.T, apiKey string) (*fakeHandler, *httptest.Server) {
	t.Helper()
	log := logger.Discard()
	conf := &config.Config{}
	conf.Listen.ApiKey = apiKey

	h := &fakeHandler{}
	srv := httptest.NewServer(New(conf, log, h, ws.NewHub(log)).Handler())
	t.Cleanup(srv.Close)
	return h, srv
}

func do(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestPostActivity(t *testing.T) {
	h, srv := newTestServer(t, "")

	resp, out := do(t, http.MethodPost, srv.URL+"/api/v1/conversations/conv-9/activities", "",
		`{"user_id":"u1","text":"hi","conversation_id":"ignored"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])

	data := out["data"].(map[string]any)
	assert.NotEmpty(t, data["activity_id"])
	replies := data["replies"].([]any)
	require.Len(t, replies, 1)
	assert.Equal(t, "echo: hi", replies[0].(map[string]any)["text"])

	require.Len(t, h.activities, 1)
	got := h.activities[0]
	assert.Equal(t, "conv-9", got.ConversationID)
	assert.Equal(t, "webchat", got.Channel)
	assert.Equal(t, "u1", got.UserID)
}

func TestPostActivityRejectsInvalidBody(t *testing.T) {
	h, srv := newTestServer(t, "")

	resp, out := do(t, http.MethodPost, srv.URL+"/api/v1/conversations/conv-9/activities", "", `{"text":"no user"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["message"], "UserID")
	assert.Empty(t, h.activities)
}

func TestPostActivityTurnFailure(t *testing.T) {
	h, srv := newTestServer(t, "")
	h.turnErr = errors.New("boom")

	resp, out := do(t, http.MethodPost, srv.URL+"/api/v1/conversations/conv-9/activities", "", `{"user_id":"u1","text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Turn failed", out["message"])
}

func TestResetConversation(t *testing.T) {
	h, srv := newTestServer(t, "")

	resp, _ := do(t, http.MethodDelete, srv.URL+"/api/v1/conversations/conv-9?channel=telegram", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"telegram/conv-9"}, h.resets)
}

func TestStartConversation(t *testing.T) {
	h, srv := newTestServer(t, "secret")
	url := srv.URL + "/api/v1/conversations/conv-9/start"

	resp, _ := do(t, http.MethodPost, url, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, out := do(t, http.MethodPost, url, "secret", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	replies := out["data"].(map[string]any)["replies"].([]any)
	require.Len(t, replies, 1)
	assert.Equal(t, channel.MsgWelcome, replies[0].(map[string]any)["text"])
	assert.Equal(t, []string{"webchat/conv-9"}, h.resets)
}

func TestGetTranscript(t *testing.T) {
	_, srv := newTestServer(t, "")

	resp, out := do(t, http.MethodGet, srv.URL+"/api/v1/conversations/conv-9/transcript", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := out["data"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "webchat", entry["channel"])
	assert.Equal(t, "conv-9", entry["conversation_id"])
}

func TestAuthentication(t *testing.T) {
	h, srv := newTestServer(t, "secret")
	url := srv.URL + "/api/v1/conversations/conv-1/activities"
	body := `{"user_id":"u1","text":"hi"}`

	resp, _ := do(t, http.MethodPost, url, "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, url, "wrong", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, h.activities)

	resp, _ = do(t, http.MethodPost, url, "secret", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, h.activities, 1)

	resp, _ = do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateKey(t *testing.T) {
	_, srv := newTestServer(t, "secret")

	resp, out := do(t, http.MethodPost, srv.URL+"/api/v1/keys", "secret", `{"username":"shop-widget"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]any)
	assert.Equal(t, "key-shop-widget", data["token"])

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/v1/keys", "secret", `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	_, srv := newTestServer(t, "")

	resp, out := do(t, http.MethodGet, srv.URL+"/api/v2/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, out["success"])
}
