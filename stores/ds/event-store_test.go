package ds

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func createId() we.AggregateId {
	return we.AggregateId{
		Type: "go-test",
		Key:  ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
	}
}

var TestedEvent = we.EventType("test:test-event")

type Tested struct {
	TestStringValue string `json:"test_string_value"`
	TestIntValue    int    `json:"test_int_value"`
}

func (Tested) EventType() we.EventType {
	return TestedEvent
}

func TestDynamoDBStore(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	store, tearDown, err := DynamoTestStore(ctx)
	if err != nil {
		t.Logf("failed to create test store. %+v", err)
		t.FailNow()
	}

	defer tearDown()

	t.Run("dynamodb event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("removes details for entities", func(t *testing.T) {
		event := Tested{
			TestStringValue: "test string",
			TestIntValue:    42,
		}
		aggregateId := createId()

		_, err := store.Publish(ctx, aggregateId, we.Options(), event)
		if !assert.Nil(t, err) {
			return
		}

		count, err := store.Remove(ctx, aggregateId)
		if !assert.Nil(t, err) {
			return
		}

		// the change set and the latest revision record
		assert.Equal(t, 2, count)

		loaded, err := store.Load(ctx, aggregateId)
		assert.Nil(t, err)
		assert.Equal(t, we.InitialRevision, loaded.Revision)
	})

	t.Run("publishes without expected revision", func(t *testing.T) {
		aggregateId := createId()

		first, err := store.Publish(ctx, aggregateId, we.Options(), Tested{TestIntValue: 1})
		if !assert.Nil(t, err) {
			return
		}

		second, err := store.Publish(ctx, aggregateId, we.Options(), Tested{TestIntValue: 2})
		if !assert.Nil(t, err) {
			return
		}

		assert.Less(t, first.String(), second.String())

		loaded, err := store.Load(ctx, aggregateId)
		assert.Nil(t, err)
		assert.Len(t, loaded.Events, 2)
		assert.Equal(t, second, loaded.Revision)
	})
}
