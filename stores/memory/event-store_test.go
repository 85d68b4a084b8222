package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

type Tested struct {
	Value string `json:"value"`
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	t.Run("memory event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("isolates loaded events from later publishes", func(t *testing.T) {
		id := we.AggregateId{Type: "test", Key: "isolation"}

		_, err := store.Publish(ctx, id, we.Options(), Tested{Value: "one"})
		if !assert.Nil(t, err) {
			return
		}

		loaded, err := store.Load(ctx, id)
		if !assert.Nil(t, err) {
			return
		}

		_, err = store.Publish(ctx, id, we.Options(), Tested{Value: "two"})
		if !assert.Nil(t, err) {
			return
		}

		assert.Len(t, loaded.Events, 1)
	})

	t.Run("removes details for entities", func(t *testing.T) {
		id := we.AggregateId{Type: "test", Key: "removal"}

		_, err := store.Publish(ctx, id, we.Options(), Tested{Value: "one"}, Tested{Value: "two"})
		if !assert.Nil(t, err) {
			return
		}

		count, err := store.Remove(ctx, id)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, 2, count)

		loaded, err := store.Load(ctx, id)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, we.InitialRevision, loaded.Revision)
	})
}
