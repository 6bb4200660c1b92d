package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoTransactLimit is the item cap of one TransactWriteItems call.
const dynamoTransactLimit = 100

type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoDB stores one item per key: PK is the key, "data" holds the bytes and
// "ttl" the expiry epoch used by the table's TTL setting.
type DynamoDB struct {
	api       dynamodbAPI
	tableName string
	ttl       time.Duration
}

func NewDynamoDB(api dynamodbAPI, tableName string, ttl time.Duration) (*DynamoDB, error) {
	if api == nil {
		return nil, errors.New("state: dynamodb api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("state: dynamodb table name must not be empty")
	}
	return &DynamoDB{api: api, tableName: tableName, ttl: ttl}, nil
}

func (d *DynamoDB) itemKey(k string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: k},
	}
}

func (d *DynamoDB) Load(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	now := time.Now().Unix()
	for _, k := range keys {
		res, err := d.api.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(d.tableName),
			Key:            d.itemKey(k),
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("state: dynamodb get %q: %w", k, err)
		}
		if res == nil || len(res.Item) == 0 {
			continue
		}
		// TTL deletion is lazy on the AWS side
		if exp, ok := res.Item["ttl"].(*types.AttributeValueMemberN); ok && d.ttl > 0 {
			var epoch int64
			if _, err := fmt.Sscan(exp.Value, &epoch); err == nil && epoch < now {
				continue
			}
		}
		data, ok := res.Item["data"].(*types.AttributeValueMemberB)
		if !ok {
			return nil, fmt.Errorf("state: dynamodb item %q has no data attribute", k)
		}
		out[k] = data.Value
	}
	return out, nil
}

func (d *DynamoDB) Save(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]types.TransactWriteItem, 0, len(keys))
	for _, k := range keys {
		v := entries[k]
		if v == nil {
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{TableName: aws.String(d.tableName), Key: d.itemKey(k)},
			})
			continue
		}
		item := d.itemKey(k)
		item["data"] = &types.AttributeValueMemberB{Value: v}
		if d.ttl > 0 {
			item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprint(time.Now().Add(d.ttl).Unix())}
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{TableName: aws.String(d.tableName), Item: item},
		})
	}
	return d.transact(ctx, items)
}

func (d *DynamoDB) Delete(ctx context.Context, keys []string) error {
	items := make([]types.TransactWriteItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{TableName: aws.String(d.tableName), Key: d.itemKey(k)},
		})
	}
	return d.transact(ctx, items)
}

func (d *DynamoDB) transact(ctx context.Context, items []types.TransactWriteItem) error {
	for len(items) > 0 {
		n := len(items)
		if n > dynamoTransactLimit {
			n = dynamoTransactLimit
		}
		_, err := d.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items[:n]})
		if err != nil {
			return fmt.Errorf("state: dynamodb transact write: %w", err)
		}
		items = items[n:]
	}
	return nil
}
