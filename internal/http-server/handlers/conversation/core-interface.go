package conversation

import (
	"context"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/entity"
)

type Core interface {
	HandleActivity(ctx context.Context, activity *entity.Activity) ([]channel.Reply, error)
	ResetConversation(ctx context.Context, channel, conversationID string) error
	StartConversation(ctx context.Context, ch, conversationID string) ([]channel.Reply, error)
	Transcript(ctx context.Context, channel, conversationID string) ([]entity.TranscriptEntry, error)
}

// DefaultChannel is used when a request does not name its channel.
const DefaultChannel = "webchat"
