package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"ReturnsAgent/bot/flows"
	"ReturnsAgent/bot/flows/flowstest"
	"ReturnsAgent/bot/flows/mainflow"
	"ReturnsAgent/bot/router"
	"ReturnsAgent/internal/lib/logger"
	"ReturnsAgent/internal/nlu"
	"ReturnsAgent/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatHarness(t *testing.T) (*flowstest.Harness, *router.Router) {
	h := flowstest.New(t)
	h.Channel = chatChannel
	h.Conversation = chatConversation
	h.User = chatUser
	return h, router.New(h.Store, state.NewLocker(), h.Engine, nil, logger.Discard())
}

func TestChatLoopCreatesReturnWithButtons(t *testing.T) {
	h, r := newChatHarness(t)
	const text = "I want to return the shoes from order ORD-1"
	h.Classifier.Results[text] = &nlu.Result{
		Intent:         nlu.IntentCreateReturn,
		Store:          "Nike",
		OrderReference: "ORD-1",
		EmailAddress:   "jane@example.com",
	}

	in := strings.Join([]string{text, "#2", "yes", "#2", "/quit"}, "\n")
	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), strings.NewReader(in), &out, r))

	got := out.String()
	assert.Contains(t, got, "[#1] Return: Too big")
	assert.Contains(t, got, "[#3] Remove from return")
	assert.Contains(t, got, "[#2] Collection - DHL")
	assert.Contains(t, got, "Return Order Number: 900123")
	assert.Contains(t, got, "bot> "+flows.MsgWhatElse)

	require.NotNil(t, h.OMS.CreateRequest)
	assert.Equal(t, "Collection", h.OMS.CreateRequest.ReturnMethod)
	require.Len(t, h.OMS.CreateRequest.ReturnItems, 1)
}

func TestChatLoopCommands(t *testing.T) {
	h, r := newChatHarness(t)

	in := strings.Join([]string{"hello", "#4", "/reset"}, "\n")
	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), strings.NewReader(in), &out, r))

	got := out.String()
	assert.Contains(t, got, "bot> "+mainflow.MsgHowCanIHelp)
	assert.Contains(t, got, "(no such button)")
	assert.Contains(t, got, "(conversation reset)")
	assert.True(t, h.Stack().Empty())
}
