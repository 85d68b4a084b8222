package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

type EventStoreOption func(*EventStore)

func WithClock(clock func() time.Time) EventStoreOption {
	return func(store *EventStore) {
		store.clock = clock
	}
}

// EventStore keeps change sets in process. Publish is serialised, which
// gives the same expected-revision semantics as the durable backends.
func NewEventStore(options ...EventStoreOption) *EventStore {
	store := &EventStore{
		streams:  make(map[we.EncodedAggregateId][]we.RecordedEvent),
		revision: we.NewRevisionGenerator(),
		clock:    time.Now,
	}

	for _, option := range options {
		option(store)
	}

	return store
}

type EventStore struct {
	lk       sync.RWMutex
	streams  map[we.EncodedAggregateId][]we.RecordedEvent
	revision *we.RevisionGenerator
	clock    func() time.Time
}

func (es *EventStore) Load(_ context.Context, id we.AggregateId) (we.Aggregate, error) {
	es.lk.RLock()
	defer es.lk.RUnlock()

	stream := es.streams[id.Encode()]
	events := make([]we.RecordedEvent, len(stream))
	copy(events, stream)

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

	now := es.clock()
	timestamp := we.TimestampFromTime(now)

	recorded := make([]we.RecordedEvent, len(events))
	for index, event := range events {
		data, err := we.MarshalToData(event)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal event")
		}

		recorded[index] = we.RecordedEvent{
			AggregateId: aggregateId,
			EventType:   we.EventTypeOf(event),
			Timestamp:   timestamp,
			Metadata:    options.RecordedEventMetadata,
			Data:        data,
		}
	}

	key := aggregateId.Encode()

	es.lk.Lock()
	defer es.lk.Unlock()

	stream := es.streams[key]
	if expected := options.ExpectedRevision; expected != "" && expected != we.RevisionFrom(stream) {
		return "", we.RevisionConflict
	}

	for index := range recorded {
		revision := es.revision.NewRevision(now)
		recorded[index].Revision = revision
		recorded[index].EventID = we.EventID(revision)
	}

	es.streams[key] = append(stream, recorded...)

	return we.RevisionFrom(recorded), nil
}

func (es *EventStore) Remove(_ context.Context, id we.AggregateId) (int, error) {
	es.lk.Lock()
	defer es.lk.Unlock()

	key := id.Encode()
	count := len(es.streams[key])
	delete(es.streams, key)

	return count, nil
}
