package state

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items     map[string]map[string]types.AttributeValue
	transacts int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func pk(key map[string]types.AttributeValue) string {
	return key["PK"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[pk(in.Key)]}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transacts++
	for _, it := range in.TransactItems {
		switch {
		case it.Put != nil:
			f.items[pk(it.Put.Item)] = it.Put.Item
		case it.Delete != nil:
			delete(f.items, pk(it.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func TestNewDynamoDBValidation(t *testing.T) {
	_, err := NewDynamoDB(nil, "table", 0)
	require.Error(t, err)
	_, err = NewDynamoDB(newFakeDynamo(), "  ", 0)
	require.Error(t, err)
}

func TestDynamoDBRoundTrip(t *testing.T) {
	api := newFakeDynamo()
	backend, err := NewDynamoDB(api, "bot-state", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}))
	assert.Equal(t, 1, api.transacts, "one flush is one transaction")

	got, err := backend.Load(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, "1", string(got["a"]))
	assert.Equal(t, "2", string(got["b"]))
	assert.Len(t, got, 2)

	require.NoError(t, backend.Save(ctx, map[string][]byte{"a": nil}))
	require.NoError(t, backend.Delete(ctx, []string{"b"}))
	assert.Empty(t, api.items)
}

func TestDynamoDBIgnoresExpiredItems(t *testing.T) {
	api := newFakeDynamo()
	api.items["old"] = map[string]types.AttributeValue{
		"PK":   &types.AttributeValueMemberS{Value: "old"},
		"data": &types.AttributeValueMemberB{Value: []byte("x")},
		"ttl":  &types.AttributeValueMemberN{Value: "1"},
	}
	backend, err := NewDynamoDB(api, "bot-state", time.Hour)
	require.NoError(t, err)

	got, err := backend.Load(context.Background(), []string{"old"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
