package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/domain"
)

// DynamoStore implements TableStore on DynamoDB. Each resource lives in its
// own table with a single string hash key "id".
type DynamoStore struct {
	client *dynamodb.Client
}

func NewDynamoStore(ctx context.Context, cfg config.DynamoConfig) (*DynamoStore, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := dynamodb.NewFromConfig(awscfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &DynamoStore{client: client}, nil
}

func (s *DynamoStore) Put(ctx context.Context, table string, record interface{}) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return errors.Wrapf(err, "marshal item for table %s", table)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	return errors.Wrapf(err, "put item into %s", table)
}

func (s *DynamoStore) Get(ctx context.Context, table, id string, out interface{}) error {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       idKey(id),
	})
	if err != nil {
		return errors.Wrapf(err, "get item %s from %s", id, table)
	}
	if len(res.Item) == 0 {
		return errors.Wrapf(domain.ErrNotFound, "%s/%s", table, id)
	}
	return errors.Wrap(attributevalue.UnmarshalMap(res.Item, out), "unmarshal item")
}

func (s *DynamoStore) Delete(ctx context.Context, table, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       idKey(id),
	})
	return errors.Wrapf(err, "delete item %s from %s", id, table)
}

// Scan reads the whole table, following the cursor until exhausted, and
// unmarshals the items into out (a pointer to a slice).
func (s *DynamoStore) Scan(ctx context.Context, table string, out interface{}) error {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		res, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return errors.Wrapf(err, "scan table %s", table)
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		startKey = res.LastEvaluatedKey
	}
	return errors.Wrap(attributevalue.UnmarshalListOfMaps(items, out), "unmarshal scan result")
}

// Ping verifies the store is reachable.
func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}

// EnsureTables creates any missing resource tables with the standard "id"
// hash key and waits until they are active.
func (s *DynamoStore) EnsureTables(ctx context.Context, tables []string) error {
	for _, table := range tables {
		_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(table),
		})
		if err == nil {
			continue
		}
		var nf *types.ResourceNotFoundException
		if !errors.As(err, &nf) {
			return errors.Wrapf(err, "describe table %s", table)
		}

		zap.S().Infof("creating table %s", table)
		_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:   aws.String(table),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
		})
		if err != nil {
			return errors.Wrapf(err, "create table %s", table)
		}

		waiter := dynamodb.NewTableExistsWaiter(s.client)
		err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(table),
		}, 2*time.Minute)
		if err != nil {
			return errors.Wrapf(err, "wait for table %s", table)
		}
	}
	return nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
