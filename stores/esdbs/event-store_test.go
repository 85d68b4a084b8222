package esdbs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

type TestEvent struct {
	Value string `json:"value"`
}

func TestEventStore(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	store, cleanup, err := NewESDBTestStore(ctx, PageSize(5))
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	t.Run("esdb event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("should batch publish", func(t *testing.T) {
		var testId = we.AggregateId{Type: "test", Key: "should-batch-publish"}

		events := createEvents(12)

		revision, err := store.Publish(ctx, testId, we.PublishOptions{}, events...)
		if !assert.Nil(t, err) {
			return
		}

		aggregate, err := store.Load(ctx, testId)
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, 12, len(aggregate.Events))
		assert.Equal(t, we.Revision("0000000000000000000000000c"), aggregate.Revision)
		assert.Equal(t, revision, aggregate.Revision)
	})

	t.Run("accepts hexadecimal expected revisions", func(t *testing.T) {
		var testId = we.AggregateId{Type: "test", Key: "hexadecimal-revisions"}

		revision, err := store.Publish(ctx, testId, we.Options(), createEvents(11)...)
		if !assert.Nil(t, err) {
			return
		}

		_, err = store.Publish(ctx, testId, we.Options(we.WithExpectedRevision(revision)), createEvents(1)...)
		assert.Nil(t, err)
	})
}

func TestExpectedRevision(t *testing.T) {
	_, err := expectedRevision(we.Revision("not-a-revision"))
	assert.Error(t, err)

	_, err = expectedRevision(revisionOf(41))
	assert.Nil(t, err)
}

func createEvents(count uint) []we.DomainEvent {
	events := make([]we.DomainEvent, count)
	for i := range events {
		events[i] = TestEvent{Value: fmt.Sprintf("test %d", i)}
	}
	return events
}
