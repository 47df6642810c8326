package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"billing_reconciler/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultCacheTableName = "idempotency_cache"

type cacheItem struct {
	Key       string `dynamodbav:"key"`
	Value     []byte `dynamodbav:"value"`
	ExpiresAt int64  `dynamodbav:"expires_at,omitempty"`
}

// CacheDynamoRepository is the shared ICacheStore.
//
// Table requirements:
//   - PK: key (string)
//   - TTL attribute: expires_at (epoch seconds)
//
// DynamoDB deletes expired items lazily, so reads and conditional writes
// treat an elapsed expires_at as absent.
type CacheDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
	now       func() time.Time
}

var _ interfaces.ICacheStore = (*CacheDynamoRepository)(nil)

func NewCacheDynamoRepository(ddb *dynamodb.Client, tableName string) *CacheDynamoRepository {
	if tableName == "" {
		tableName = getenvDefault("IDEMPOTENCY_TABLE", defaultCacheTableName)
	}
	return &CacheDynamoRepository{ddb: ddb, tableName: tableName, now: time.Now}
}

func (r *CacheDynamoRepository) expiry(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return r.now().Add(ttl).Unix()
}

func (r *CacheDynamoRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, err
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var it cacheItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, false, err
	}
	if it.ExpiresAt != 0 && it.ExpiresAt <= r.now().Unix() {
		return nil, false, nil
	}
	return it.Value, true, nil
}

func (r *CacheDynamoRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	av, err := attributevalue.MarshalMap(cacheItem{Key: key, Value: value, ExpiresAt: r.expiry(ttl)})
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

// SetIfAbsent is a conditional put: it wins when no item exists or the
// existing one has expired.
func (r *CacheDynamoRepository) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	av, err := attributevalue.MarshalMap(cacheItem{Key: key, Value: value, ExpiresAt: r.expiry(ttl)})
	if err != nil {
		return false, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#k) OR (attribute_exists(#exp) AND #exp <= :now)"),
		ExpressionAttributeNames: map[string]string{
			"#k":   "key",
			"#exp": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(r.now().Unix(), 10)},
		},
	})
	if err != nil {
		var failed *types.ConditionalCheckFailedException
		if errors.As(err, &failed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CacheDynamoRepository) Delete(ctx context.Context, key string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	return err
}

// DeleteIfValue is a conditional delete on the stored value.
func (r *CacheDynamoRepository) DeleteIfValue(ctx context.Context, key string, value []byte) (bool, error) {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		ConditionExpression:      aws.String("#v = :v"),
		ExpressionAttributeNames: map[string]string{"#v": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberB{Value: value},
		},
	})
	if err != nil {
		var failed *types.ConditionalCheckFailedException
		if errors.As(err, &failed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
