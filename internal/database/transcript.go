package repository

import (
	"context"
	"fmt"

	"ReturnsAgent/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	transcriptCollection = "transcripts"
	transcriptKeep       = 100
)

func transcriptFilter(channel, conversationID string) bson.D {
	return bson.D{{Key: "channel", Value: channel}, {Key: "conversation_id", Value: conversationID}}
}

// SaveTranscript appends the entries of a turn and trims the conversation to
// its newest messages.
func (m *MongoDB) SaveTranscript(ctx context.Context, entries []entity.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(transcriptCollection)

	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}
	if _, err = collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongodb insert transcript: %w", err)
	}

	first := entries[0]
	filter := transcriptFilter(first.Channel, first.ConversationID)
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb count transcript: %w", err)
	}
	if count <= transcriptKeep {
		return nil
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(transcriptKeep - 1)
	var cutoff entity.TranscriptEntry
	if err = collection.FindOne(ctx, filter, opts).Decode(&cutoff); err != nil {
		return fmt.Errorf("mongodb find transcript cutoff: %w", err)
	}
	deleteFilter := append(filter, bson.E{Key: "created_at", Value: bson.D{{Key: "$lt", Value: cutoff.CreatedAt}}})
	if _, err = collection.DeleteMany(ctx, deleteFilter); err != nil {
		return fmt.Errorf("mongodb trim transcript: %w", err)
	}
	return nil
}

// GetTranscript returns up to limit messages of a conversation, oldest first.
func (m *MongoDB) GetTranscript(ctx context.Context, channel, conversationID string, limit int) ([]entity.TranscriptEntry, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(transcriptCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, transcriptFilter(channel, conversationID), opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find transcript: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []entity.TranscriptEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("mongodb decode transcript: %w", err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
