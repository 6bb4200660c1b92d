// Package flows holds what the returns flows share: their ids, the user and
// conversation properties they read and write, and common replies.
package flows

import (
	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/state"
)

const (
	Main             dialog.FlowID = "main"
	Login            dialog.FlowID = "login"
	CreateReturn     dialog.FlowID = "create_return"
	TrackReturnOrder dialog.FlowID = "track_return_order"
	Feedback         dialog.FlowID = "feedback"
)

const (
	MsgWhatElse          = "What else can I do for you?"
	MsgOrderNotFound     = "Sorry, we couldn't find your order. Please try again."
	MsgPleaseWait        = "Please wait while we are looking for your order..."
	MsgUnexpectedAction  = "Unexpected action received. Please try again."
	MsgAskStore          = "Please enter your order store."
	MsgAskOrderReference = "Please enter your order reference."
	MsgAskEmail          = "Please enter your email address."
	MsgRetryEmail        = "The value entered must be a valid email address."
)

var (
	// LogIn is the per-user login record, shared across conversations.
	LogIn = state.NewProperty[entity.LogInData](state.ScopeUser, "login_data", nil)

	// Selections holds the items each participant marked for return.
	Selections = state.NewProperty[entity.OrderItemSelections](state.ScopeConversation, "order_item_selections",
		func() *entity.OrderItemSelections {
			s := make(entity.OrderItemSelections)
			return &s
		})
)

// MainOptions starts the main flow. A non-empty Message is prompted before
// classifying the reply.
type MainOptions struct {
	Message string `json:"message,omitempty"`
}
