package rds

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/goccy/go-json"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/weegigs/wee-counter-go/we"
)

type EventStoreOption func(*EventStore)

func WithPrefix(prefix string) EventStoreOption {
	return func(store *EventStore) {
		store.prefix = strings.Trim(prefix, ":")
	}
}

// NewEventStore keeps each aggregate as a Redis list of recorded events.
// Publish watches the list so a concurrent writer aborts the transaction.
func NewEventStore(rdb *redis.Client, options ...EventStoreOption) *EventStore {
	store := &EventStore{
		rdb:      rdb,
		prefix:   "we:events",
		revision: we.NewRevisionGenerator(),
	}

	for _, option := range options {
		option(store)
	}

	return store
}

type EventStore struct {
	rdb      *redis.Client
	prefix   string
	revision *we.RevisionGenerator
}

func (es *EventStore) key(id we.AggregateId) string {
	return es.prefix + ":" + id.Encode().String()
}

func (es *EventStore) Load(ctx context.Context, id we.AggregateId) (we.Aggregate, error) {
	values, err := es.rdb.LRange(ctx, es.key(id), 0, -1).Result()
	if err != nil {
		return we.Aggregate{}, pkgerrors.Wrap(err, "failed to read events")
	}

	events := make([]we.RecordedEvent, len(values))
	for i, value := range values {
		if err := json.Unmarshal([]byte(value), &events[i]); err != nil {
			return we.Aggregate{}, pkgerrors.Wrap(err, "failed to unmarshal event")
		}
	}

	return we.Aggregate{
		Id:       id,
		Events:   events,
		Revision: we.RevisionFrom(events),
	}, nil
}

func (es *EventStore) Publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) (we.Revision, error) {
	if len(events) == 0 {
		return "", we.ErrNoEvents
	}

	var revision we.Revision
	err := retry.Do(
		func() error {
			published, err := es.publish(ctx, aggregateId, options, events)
			if err != nil {
				return err
			}

			revision = published
			return nil
		},
		retry.Context(ctx),
		retry.Delay(5*time.Millisecond),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, redis.TxFailedErr) && len(options.ExpectedRevision) == 0
		}),
		retry.LastErrorOnly(true),
	)

	if errors.Is(err, redis.TxFailedErr) {
		return "", we.RevisionConflict
	}

	if err != nil {
		return "", err
	}

	return revision, nil
}

func (es *EventStore) publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events []we.DomainEvent) (we.Revision, error) {
	key := es.key(aggregateId)

	var revision we.Revision
	err := es.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := es.head(ctx, tx, key)
		if err != nil {
			return err
		}

		if expected := options.ExpectedRevision; expected != "" && expected != current {
			return we.RevisionConflict
		}

		values, last, err := es.record(aggregateId, options, events)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, key, values...)
			return nil
		})
		if err != nil {
			return err
		}

		revision = last
		return nil
	}, key)
	if err != nil {
		return "", err
	}

	return revision, nil
}

func (es *EventStore) head(ctx context.Context, tx *redis.Tx, key string) (we.Revision, error) {
	value, err := tx.LIndex(ctx, key, -1).Result()
	if errors.Is(err, redis.Nil) {
		return we.InitialRevision, nil
	}

	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to read latest event")
	}

	var last we.RecordedEvent
	if err := json.Unmarshal([]byte(value), &last); err != nil {
		return "", pkgerrors.Wrap(err, "failed to unmarshal latest event")
	}

	return last.Revision, nil
}

func (es *EventStore) record(aggregateId we.AggregateId, options we.PublishOptions, events []we.DomainEvent) ([]any, we.Revision, error) {
	now := time.Now()
	timestamp := we.TimestampFromTime(now)

	var revision we.Revision
	values := make([]any, len(events))
	for index, event := range events {
		data, err := we.MarshalToData(event)
		if err != nil {
			return nil, "", pkgerrors.Wrap(err, "failed to marshal event")
		}

		revision = es.revision.NewRevision(now)
		encoded, err := json.Marshal(we.RecordedEvent{
			AggregateId: aggregateId,
			EventID:     we.EventID(revision),
			EventType:   we.EventTypeOf(event),
			Revision:    revision,
			Timestamp:   timestamp,
			Metadata:    options.RecordedEventMetadata,
			Data:        data,
		})
		if err != nil {
			return nil, "", pkgerrors.Wrap(err, "failed to marshal recorded event")
		}

		values[index] = encoded
	}

	return values, revision, nil
}

// Remove deletes an aggregate and reports how many events it held.
func (es *EventStore) Remove(ctx context.Context, id we.AggregateId) (int, error) {
	key := es.key(id)

	var length *redis.IntCmd
	_, err := es.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.LLen(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to remove events")
	}

	return int(length.Val()), nil
}
