package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/bot/channel"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"
)

// HandleActivity runs one turn and returns its replies. Replies are also
// pushed to websocket watchers and written to the transcript when those are
// configured; failures there never fail the turn.
func (c *Core) HandleActivity(ctx context.Context, activity *entity.Activity) ([]channel.Reply, error) {
	if c.router == nil {
		return nil, fmt.Errorf("router is not set")
	}
	received := time.Now()

	collector := channel.NewCollector()
	if err := c.router.Handle(ctx, activity, collector); err != nil {
		return nil, err
	}
	replies := collector.Replies()

	if c.publisher != nil && len(replies) > 0 {
		c.publisher.PublishReplies(activity.ConversationID, replies)
	}
	c.record(ctx, activity, received, replies)
	return replies, nil
}

func (c *Core) ResetConversation(ctx context.Context, ch, conversationID string) error {
	if c.router == nil {
		return fmt.Errorf("router is not set")
	}
	if err := c.router.Reset(ctx, ch, conversationID); err != nil {
		return err
	}
	c.log.With(
		slog.String("channel", ch),
		slog.String("conversation", conversationID),
	).Info("reset conversation")

	if c.publisher != nil {
		c.publisher.PublishReset(conversationID)
	}
	return nil
}

// StartConversation opens a fresh dialog and returns the welcome message.
// Webchat calls it when the widget opens.
func (c *Core) StartConversation(ctx context.Context, ch, conversationID string) ([]channel.Reply, error) {
	if err := c.ResetConversation(ctx, ch, conversationID); err != nil {
		return nil, err
	}
	replies := []channel.Reply{channel.TextReply(channel.MsgWelcome)}

	if c.publisher != nil {
		c.publisher.PublishReplies(conversationID, replies)
	}
	if c.transcripts != nil {
		activity := &entity.Activity{Channel: ch, ConversationID: conversationID}
		// no user message opens the conversation
		entries := TranscriptEntries(activity, time.Now(), replies)[1:]
		if err := c.transcripts.SaveTranscript(ctx, entries); err != nil {
			c.log.With(
				slog.String("conversation", conversationID),
			).Warn("save transcript", sl.Err(err))
		}
	}
	return replies, nil
}

func (c *Core) Transcript(ctx context.Context, ch, conversationID string) ([]entity.TranscriptEntry, error) {
	if c.transcripts == nil {
		return nil, fmt.Errorf("transcripts are not enabled")
	}
	return c.transcripts.GetTranscript(ctx, ch, conversationID, c.transcriptLimit)
}

// TranscriptEntries converts one turn into stored messages. Outgoing entries
// are spaced a millisecond apart so they sort in send order.
func TranscriptEntries(activity *entity.Activity, received time.Time, replies []channel.Reply) []entity.TranscriptEntry {
	entries := make([]entity.TranscriptEntry, 0, len(replies)+1)
	in := entity.TranscriptEntry{
		Channel:        activity.Channel,
		ConversationID: activity.ConversationID,
		UserID:         activity.UserID,
		Direction:      entity.DirectionIncoming,
		Text:           activity.Text,
		CreatedAt:      received,
	}
	if action, ok := activity.Value[card.ActionKey].(string); ok {
		in.Action = action
	}
	entries = append(entries, in)

	for i, r := range replies {
		entries = append(entries, entity.TranscriptEntry{
			Channel:        activity.Channel,
			ConversationID: activity.ConversationID,
			Direction:      entity.DirectionOutgoing,
			Text:           r.Text,
			Cards:          len(r.Cards),
			CreatedAt:      received.Add(time.Duration(i+1) * time.Millisecond),
		})
	}
	return entries
}

func (c *Core) record(ctx context.Context, activity *entity.Activity, received time.Time, replies []channel.Reply) {
	if c.transcripts == nil {
		return
	}
	if err := c.transcripts.SaveTranscript(ctx, TranscriptEntries(activity, received, replies)); err != nil {
		c.log.With(
			slog.String("conversation", activity.ConversationID),
		).Warn("save transcript", sl.Err(err))
	}
}
