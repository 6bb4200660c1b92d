package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// TranscriptEntry is one message of a conversation as stored for review.
type TranscriptEntry struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Channel        string             `json:"channel" bson:"channel"`
	ConversationID string             `json:"conversation_id" bson:"conversation_id"`
	UserID         string             `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Direction      string             `json:"direction" bson:"direction"` // "incoming" | "outgoing"
	Text           string             `json:"text,omitempty" bson:"text,omitempty"`
	Action         string             `json:"action,omitempty" bson:"action,omitempty"`
	Cards          int                `json:"cards,omitempty" bson:"cards,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
