package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenAuth string

func (a tokenAuth) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token != string(a) {
		return nil, errors.New("bad token")
	}
	return &entity.UserAuth{Username: "test", Token: token}, nil
}

func startHub(t *testing.T, auth Authenticator) (*Hub, *httptest.Server) {
	t.Helper()
	log := logger.Discard()
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, auth, log, r.URL.Query().Get("conversation"), w, r)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	return websocket.DefaultDialer.Dial(url, nil)
}

func waitWatchers(t *testing.T, hub *Hub, conversationID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.Watchers(conversationID) == n
	}, time.Second, 10*time.Millisecond)
}

func TestPublishRepliesReachesConversationOnly(t *testing.T) {
	hub, srv := startHub(t, nil)

	mine, _, err := dial(t, srv, "conversation=conv-1")
	require.NoError(t, err)
	defer mine.Close()
	other, _, err := dial(t, srv, "conversation=conv-2")
	require.NoError(t, err)
	defer other.Close()

	waitWatchers(t, hub, "conv-1", 1)
	waitWatchers(t, hub, "conv-2", 1)

	hub.PublishReplies("conv-1", []channel.Reply{channel.TextReply("hello")})

	require.NoError(t, mine.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type           string        `json:"type"`
		ConversationID string        `json:"conversation_id"`
		Data           channel.Reply `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "reply", event.Type)
	assert.Equal(t, "conv-1", event.ConversationID)
	assert.Equal(t, "hello", event.Data.Text)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestServeWsRequiresToken(t *testing.T) {
	hub, srv := startHub(t, tokenAuth("secret"))

	_, resp, err := dial(t, srv, "conversation=conv-1")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(t, srv, "conversation=conv-1&token=wrong")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := dial(t, srv, "conversation=conv-1&token=secret")
	require.NoError(t, err)
	defer conn.Close()
	waitWatchers(t, hub, "conv-1", 1)
}

func TestClosedClientIsUnregistered(t *testing.T) {
	hub, srv := startHub(t, nil)

	conn, _, err := dial(t, srv, "conversation=conv-1")
	require.NoError(t, err)
	waitWatchers(t, hub, "conv-1", 1)

	require.NoError(t, conn.Close())
	waitWatchers(t, hub, "conv-1", 0)
}
