package jetstream

import (
	"github.com/weegigs/wee-counter-go/we"
)

type EventRecord struct {
	AggregateId we.AggregateId           `json:"aggregate-id"`
	EventID     we.EventID               `json:"id"`
	EventType   we.EventType             `json:"type"`
	Data        we.Data                  `json:"data"`
	Metadata    we.RecordedEventMetadata `json:"metadata"`
}

// ChangeSet is the payload of one stream message. Timestamp is the
// publisher's clock in milliseconds and seeds the event revisions.
type ChangeSet struct {
	Timestamp uint64        `json:"timestamp"`
	Events    []EventRecord `json:"events"`
}
