package jetstream

import (
	"context"
	"errors"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/internal"
	"github.com/weegigs/wee-counter-go/we"
)

type EventStoreOption func(*EventStore)

func WithLogger(logger zerolog.Logger) EventStoreOption {
	return func(store *EventStore) {
		store.logger = logger
	}
}

const prefix = "change-set."

type StreamName string

// NewEventStore stores change sets as messages on a JetStream stream, one
// subject per aggregate. The stream is created when missing.
func NewEventStore(name StreamName, connection *nats.Conn, options ...EventStoreOption) (*EventStore, error) {
	stream, err := connection.JetStream()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open jetstream context")
	}

	if _, err := stream.StreamInfo(string(name)); errors.Is(err, nats.ErrStreamNotFound) {
		_, err = stream.AddStream(&nats.StreamConfig{
			Name:        string(name),
			Description: "change set stream for " + string(name),
			Subjects:    []string{prefix + ">"},
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to create change set stream")
		}
	} else if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to describe change set stream")
	}

	store := &EventStore{
		name:       string(name),
		manager:    stream,
		stream:     stream,
		clock:      defaultClock{},
		ids:        we.NewRevisionGenerator(),
		logger:     log.Logger,
		marshaller: JSONMarshaller{},
	}

	for _, option := range options {
		option(store)
	}

	return store, nil
}

type EventStore struct {
	name       string
	manager    nats.JetStreamManager
	stream     nats.JetStream
	clock      Clock
	ids        *we.RevisionGenerator
	logger     zerolog.Logger
	marshaller Marshaller
}

func subject(aggregateId we.AggregateId) string {
	return prefix + aggregateId.Encode().String()
}

func (es *EventStore) Publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) (we.Revision, error) {
	if len(events) == 0 {
		return "", we.ErrNoEvents
	}

	now := es.clock.Now()
	records := make([]EventRecord, len(events))
	for index, event := range events {
		data, err := we.MarshalToData(event)
		if err != nil {
			return "", pkgerrors.Wrap(err, "failed to marshal event")
		}

		records[index] = EventRecord{
			EventID:     we.EventID(es.ids.NewRevision(now)),
			EventType:   we.EventTypeOf(event),
			AggregateId: aggregateId,
			Data:        data,
			Metadata:    options.RecordedEventMetadata,
		}
	}

	changes := ChangeSet{Timestamp: ulid.Timestamp(now), Events: records}
	bytes, err := es.marshaller.Marshal(changes)
	if err != nil {
		return "", err
	}

	msg := nats.NewMsg(subject(aggregateId))
	msg.Data = bytes

	if expected := options.ExpectedRevision; expected != "" {
		var sequence uint64
		if expected != we.InitialRevision {
			sequence, err = internal.DecodeSequenceNumber(expected)
			if err != nil {
				return "", pkgerrors.Wrap(err, "invalid expected revision")
			}
		}

		// zero asserts the subject has no messages yet
		msg.Header.Set(nats.ExpectedLastSubjSeqHdr, strconv.FormatUint(sequence, 10))
	}

	ack, err := es.stream.PublishMsg(msg, nats.Context(ctx))
	if err != nil {
		var api *nats.APIError
		if errors.As(err, &api) && api.ErrorCode == nats.JSErrCodeStreamWrongLastSequence {
			return "", we.RevisionConflict
		}

		return "", pkgerrors.Wrap(err, "failed to publish change set")
	}

	return internal.EncodeRevision(changes.Timestamp, ack.Sequence, uint16(len(records)-1))
}

func (es *EventStore) Load(ctx context.Context, id we.AggregateId) (we.Aggregate, error) {
	events, err := es.read(ctx, subject(id))
	if err != nil {
		return we.Aggregate{}, err
	}

	return we.Aggregate{
		Id:       id,
		Events:   events,
		Revision: we.RevisionFrom(events),
	}, nil
}

func (es *EventStore) latest(ctx context.Context, subject string) (*uint64, error) {
	msg, err := es.manager.GetLastMsg(es.name, subject, nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrMsgNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &msg.Sequence, nil
}

func (es *EventStore) read(ctx context.Context, subject string) ([]we.RecordedEvent, error) {
	latest, err := es.latest(ctx, subject)
	if err != nil {
		return nil, err
	}

	if latest == nil {
		return nil, nil
	}

	subscription, err := es.stream.SubscribeSync(subject, nats.DeliverAll(), nats.OrderedConsumer())
	if err != nil {
		return nil, err
	}
	defer func(subscription *nats.Subscription) {
		if err := subscription.Unsubscribe(); err != nil {
			es.logger.Err(err).Str("subject", subject).Msg("ephemeral stream subscription failed to unsubscribe cleanly")
		}
	}(subscription)

	var events []we.RecordedEvent
	for {
		msg, err := subscription.NextMsgWithContext(ctx)
		if err != nil {
			return nil, err
		}

		metadata, err := msg.Metadata()
		if err != nil {
			return nil, err
		}

		recorded, err := es.decodeChangeSet(msg.Data, metadata)
		if err != nil {
			return nil, err
		}

		events = append(events, recorded...)

		if metadata.Sequence.Stream >= *latest {
			break
		}
	}

	return events, nil
}

func (es *EventStore) decodeChangeSet(data []byte, metadata *nats.MsgMetadata) ([]we.RecordedEvent, error) {
	cs := &ChangeSet{}
	if err := es.marshaller.Unmarshal(data, cs); err != nil {
		return nil, err
	}

	timestamp := we.TimestampFromTime(ulid.Time(cs.Timestamp))
	result := make([]we.RecordedEvent, 0, len(cs.Events))
	for i, event := range cs.Events {
		revision, err := internal.EncodeRevision(cs.Timestamp, metadata.Sequence.Stream, uint16(i))
		if err != nil {
			return nil, err
		}

		result = append(result, we.RecordedEvent{
			AggregateId: event.AggregateId,
			EventID:     event.EventID,
			Revision:    revision,
			Timestamp:   timestamp,
			EventType:   event.EventType,
			Data:        event.Data,
			Metadata:    event.Metadata,
		})
	}

	return result, nil
}
