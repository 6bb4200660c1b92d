package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ReturnsAgent/internal/config"
	"ReturnsAgent/internal/lib/sl"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const apiKeysCollection = "api-keys"

type MongoDB struct {
	ctx             context.Context
	clientOptions   *options.ClientOptions
	client          *mongo.Client
	database        string
	stateCollection string
	log             *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	mc := conf.State.Mongo
	if mc.Database == "" {
		return nil, errors.New("mongodb database name is empty")
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", mc.Host, mc.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if mc.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   mc.User,
			Password:   mc.Password,
			AuthSource: mc.Database,
		})
	}
	client := &MongoDB{
		ctx:             context.Background(),
		clientOptions:   clientOptions,
		database:        mc.Database,
		stateCollection: mc.Collection,
		log:             logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

// withClient reuses an open client instead of connecting per call.
func withClient(client *mongo.Client, database, stateCollection string, logger *slog.Logger) *MongoDB {
	return &MongoDB{
		ctx:             context.Background(),
		client:          client,
		database:        database,
		stateCollection: stateCollection,
		log:             logger.With(sl.Module("mongodb")),
	}
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	if m.client != nil {
		return m.client, nil
	}
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	if connection == m.client {
		return
	}
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// CheckApiKey resolves an API key to the username it was issued for.
func (m *MongoDB) CheckApiKey(ctx context.Context, key string) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)
	filter := bson.D{{Key: "key", Value: key}}

	var result struct {
		Username string `bson:"username"`
		Key      string `bson:"key"`
	}
	err = collection.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", fmt.Errorf("api key not found")
		}
		return "", m.findError(err)
	}
	if result.Username == "" {
		return "", fmt.Errorf("api key not found")
	}

	return result.Username, nil
}

// GenerateApiKey returns the existing key of username or issues a new one.
func (m *MongoDB) GenerateApiKey(ctx context.Context, username string) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)

	var existing struct {
		Key string `bson:"key"`
	}
	err = collection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&existing)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return "", m.findError(err)
	}
	if existing.Key != "" {
		return existing.Key, nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("uuid generation error: %w", err)
	}
	key := id.String()

	_, err = collection.InsertOne(ctx, bson.D{
		{Key: "username", Value: username},
		{Key: "key", Value: key},
	})
	if err != nil {
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}

	return key, nil
}
