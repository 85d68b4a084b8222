package ds

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

const (
	changeSetPrefix = "change-set#"
	latestSortKey   = "latest-revision"
)

// ChangeSet is one published batch of events. Events are stored as a JSON
// document so a change set is always a single item.
type ChangeSet struct {
	PartitionKey string       `dynamodbav:"pk"`
	SortKey      string       `dynamodbav:"sk"`
	Events       string       `dynamodbav:"events"`
	Revision     we.Revision  `dynamodbav:"revision"`
	Timestamp    we.Timestamp `dynamodbav:"timestamp"`
}

// LatestRecord tracks the head revision of an aggregate and carries the
// publish condition.
type LatestRecord struct {
	PartitionKey string       `dynamodbav:"pk"`
	SortKey      string       `dynamodbav:"sk"`
	Revision     we.Revision  `dynamodbav:"revision"`
	Timestamp    we.Timestamp `dynamodbav:"timestamp"`
}

func newChangeSet(id we.AggregateId, recorded []we.RecordedEvent) (*ChangeSet, error) {
	encoded, err := json.Marshal(recorded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal events")
	}

	last := recorded[len(recorded)-1]

	return &ChangeSet{
		PartitionKey: partitionKey(id),
		SortKey:      sortKey(last.Revision),
		Events:       string(encoded),
		Revision:     last.Revision,
		Timestamp:    last.Timestamp,
	}, nil
}

func (cs *ChangeSet) RecordedEvents() ([]we.RecordedEvent, error) {
	var evts []we.RecordedEvent
	if err := json.Unmarshal([]byte(cs.Events), &evts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal events")
	}

	return evts, nil
}

func (cs *ChangeSet) AggregateId() (*we.AggregateId, error) {
	return we.EncodedAggregateId(cs.PartitionKey).Decode()
}

func (cs *ChangeSet) Latest() *LatestRecord {
	return &LatestRecord{
		PartitionKey: cs.PartitionKey,
		SortKey:      latestSortKey,
		Revision:     cs.Revision,
		Timestamp:    cs.Timestamp,
	}
}

func partitionKey(id we.AggregateId) string {
	return id.Encode().String()
}

func sortKey(revision we.Revision) string {
	return strings.Join([]string{changeSetPrefix, revision.String()}, "")
}
