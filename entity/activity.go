package entity

import (
	"net/http"

	"ReturnsAgent/internal/lib/validate"
)

// Activity is one inbound turn from a channel: free text, a structured
// card submission in Value, or both.
type Activity struct {
	ID             string                 `json:"id"`
	Channel        string                 `json:"channel" validate:"required"`
	ConversationID string                 `json:"conversation_id" validate:"required"`
	UserID         string                 `json:"user_id" validate:"required"`
	Text           string                 `json:"text" validate:"max=4096"`
	Value          map[string]interface{} `json:"value,omitempty"`
}

func (a *Activity) Bind(_ *http.Request) error {
	return validate.Struct(a)
}
