package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Load implements state.Backend. Missing keys are absent from the result.
func (m *MongoDB) Load(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(m.stateCollection)

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: keys}}}}
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc stateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongodb decode error: %w", err)
		}
		out[doc.Key] = doc.Data
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongodb cursor error: %w", err)
	}
	return out, nil
}

// Save implements state.Backend. All entries of a flush are written in one
// transaction, so the deployment must be a replica set or sharded cluster.
func (m *MongoDB) Save(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(m.stateCollection)
	models := stateModels(entries, time.Now())

	session, err := connection.StartSession()
	if err != nil {
		return fmt.Errorf("mongodb session error: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return collection.BulkWrite(sc, models, options.BulkWrite().SetOrdered(true))
	})
	if err != nil {
		return fmt.Errorf("mongodb state transaction error: %w", err)
	}
	return nil
}

// stateModels turns a flush into write models ordered by key. A nil value
// deletes the key.
func stateModels(entries map[string][]byte, now time.Time) []mongo.WriteModel {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	models := make([]mongo.WriteModel, 0, len(keys))
	for _, key := range keys {
		data := entries[key]
		if data == nil {
			models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.D{{Key: "_id", Value: key}}))
			continue
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: key}}).
			SetUpdate(bson.D{{Key: "$set", Value: bson.D{{Key: "data", Value: data}, {Key: "updated_at", Value: now}}}}).
			SetUpsert(true))
	}
	return models
}

// Delete implements state.Backend.
func (m *MongoDB) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(m.stateCollection)

	_, err = collection.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: keys}}}})
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	return nil
}
