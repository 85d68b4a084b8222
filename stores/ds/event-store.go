package ds

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	pkgerrors "github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

type EventStoreTableName string

func (name EventStoreTableName) String() string {
	return string(name)
}

type DynamoEventStore struct {
	db       *dynamodb.Client
	table    string
	revision *we.RevisionGenerator
}

func NewEventStore(db *dynamodb.Client, table EventStoreTableName) *DynamoEventStore {
	return &DynamoEventStore{db: db, table: table.String(), revision: we.NewRevisionGenerator()}
}

func (ds *DynamoEventStore) Load(ctx context.Context, id we.AggregateId) (we.Aggregate, error) {
	events, err := ds.read(ctx, id)
	if err != nil {
		return we.Aggregate{}, err
	}

	return we.Aggregate{
		Id:       id,
		Revision: we.RevisionFrom(events),
		Events:   events,
	}, nil
}

func (ds *DynamoEventStore) Publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) (we.Revision, error) {
	if len(events) == 0 {
		return "", we.ErrNoEvents
	}

	var revision we.Revision
	err := retry.Do(
		func() error {
			published, err := ds.publish(ctx, aggregateId, options, events)
			if err != nil {
				return err
			}

			revision = published
			return nil
		},
		retry.Context(ctx),
		retry.RetryIf(
			func(err error) bool {
				// without an expected revision the only conflict is a racing
				// writer with a later revision, so retry with a fresh one
				return errors.Is(err, we.RevisionConflict) && len(options.ExpectedRevision) == 0
			},
		),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	return revision, nil
}

// Remove deletes every item of an aggregate and reports how many were
// removed.
func (ds *DynamoEventStore) Remove(ctx context.Context, id we.AggregateId) (int, error) {
	type record struct {
		PartitionKey string `dynamodbav:"pk"`
		SortKey      string `dynamodbav:"sk"`
	}

	query := expression.Key("pk").Equal(expression.Value(partitionKey(id)))
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"))

	expr, err := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection).Build()
	if err != nil {
		return 0, err
	}

	var count int
	var start map[string]types.AttributeValue
	for {
		out, err := ds.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			Limit:                     aws.Int32(25),
		})
		if err != nil {
			return count, err
		}

		if len(out.Items) > 0 {
			var items []record
			if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
				return count, err
			}

			actions := make([]types.TransactWriteItem, 0, len(items))
			for _, item := range items {
				key, err := attributevalue.MarshalMap(item)
				if err != nil {
					return count, err
				}

				actions = append(actions, types.TransactWriteItem{
					Delete: &types.Delete{Key: key, TableName: aws.String(ds.table)},
				})
			}

			if _, err := ds.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: actions}); err != nil {
				return count, err
			}

			count += len(items)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return count, nil
}

func (ds *DynamoEventStore) read(ctx context.Context, id we.AggregateId) ([]we.RecordedEvent, error) {
	query := expression.Key("pk").Equal(expression.Value(partitionKey(id))).And(
		expression.Key("sk").BeginsWith(changeSetPrefix),
	)
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"), expression.Name("events"))

	expr, err := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection).Build()
	if err != nil {
		return nil, err
	}

	var events []we.RecordedEvent
	var start map[string]types.AttributeValue
	for {
		out, err := ds.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ConsistentRead:            aws.Bool(true),
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to query change sets")
		}

		var items []ChangeSet
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, err
		}

		for i := range items {
			recorded, err := items[i].RecordedEvents()
			if err != nil {
				return nil, err
			}

			events = append(events, recorded...)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return events, nil
}

func latestCondition(revision we.Revision, expectedRevision we.Revision) expression.ConditionBuilder {
	if len(expectedRevision) == 0 {
		return expression.Name("revision").LessThan(expression.Value(revision)).Or(
			expression.AttributeNotExists(expression.Name("revision")),
		)
	}

	if expectedRevision == we.InitialRevision {
		return expression.AttributeNotExists(expression.Name("revision"))
	}

	return expression.Name("revision").Equal(expression.Value(expectedRevision))
}

func maybeRevisionConflict(err error) error {
	if err == nil {
		return nil
	}

	var oe *smithy.OperationError
	if !errors.As(err, &oe) {
		return err
	}

	var tc *types.TransactionCanceledException
	if errors.As(oe, &tc) {
		for _, reason := range tc.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return we.RevisionConflict
			}
		}
	}

	return err
}

func (ds *DynamoEventStore) record(aggregateId we.AggregateId, options we.PublishOptions, events []we.DomainEvent) ([]we.RecordedEvent, error) {
	now := time.Now()
	timestamp := we.TimestampFromTime(now)

	recorded := make([]we.RecordedEvent, len(events))
	for index, event := range events {
		data, err := we.MarshalToData(event)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to marshal event")
		}

		revision := ds.revision.NewRevision(now)
		recorded[index] = we.RecordedEvent{
			EventID:     we.EventID(revision),
			EventType:   we.EventTypeOf(event),
			AggregateId: aggregateId,
			Data:        data,
			Revision:    revision,
			Timestamp:   timestamp,
			Metadata:    options.RecordedEventMetadata,
		}
	}

	return recorded, nil
}

func (ds *DynamoEventStore) publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events []we.DomainEvent) (we.Revision, error) {
	recorded, err := ds.record(aggregateId, options, events)
	if err != nil {
		return "", err
	}

	changes, err := newChangeSet(aggregateId, recorded)
	if err != nil {
		return "", err
	}

	latest, err := attributevalue.MarshalMap(changes.Latest())
	if err != nil {
		return "", err
	}

	record, err := attributevalue.MarshalMap(changes)
	if err != nil {
		return "", err
	}

	condition, err := expression.NewBuilder().WithCondition(
		latestCondition(changes.Revision, options.ExpectedRevision),
	).Build()
	if err != nil {
		return "", err
	}

	_, err = ds.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					Item:                                latest,
					TableName:                           aws.String(ds.table),
					ConditionExpression:                 condition.Condition(),
					ExpressionAttributeNames:            condition.Names(),
					ExpressionAttributeValues:           condition.Values(),
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureNone,
				},
			},
			{
				Put: &types.Put{
					Item:      record,
					TableName: aws.String(ds.table),
				},
			},
		},
	})
	if err := maybeRevisionConflict(err); err != nil {
		return "", err
	}

	return changes.Revision, nil
}
