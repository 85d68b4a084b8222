package we

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

type Initializers[T any] map[EventType]Initializer[T]
type Reducers[T any] map[EventType]Reducer[T]

// Renderer folds recorded events into entity state. Events recorded before
// an initializing event, and events without a reducer, are skipped.
type Renderer[T any] struct {
	Initializers Initializers[T]
	Reducers     Reducers[T]
}

func (r *Renderer[T]) Render(ctx context.Context, aggregate Aggregate) (Entity[T], error) {
	var zero T
	var state *T
	var err error

	_, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("render %s", EntityTypeOf(zero)))
	defer span.End()

	for i := range aggregate.Events {
		event := &aggregate.Events[i]

		if state == nil {
			initializer := r.Initializers[event.EventType]
			if initializer == nil {
				continue
			}

			state, err = initializer.Initialize(event)
			if err != nil {
				return Entity[T]{}, errors.Wrap(err, fmt.Sprintf("failed to initialize state with %s", event.EventType))
			}

			continue
		}

		reducer := r.Reducers[event.EventType]
		if reducer == nil {
			continue
		}

		if err := reducer.Reduce(state, event); err != nil {
			return Entity[T]{}, errors.Wrap(err, fmt.Sprintf("failed to process update with %s", event.EventType))
		}
	}

	return Entity[T]{
		Aggregate: aggregate.Id,
		Revision:  aggregate.Revision,
		Type:      EntityTypeOf(zero),
		State:     state,
	}, nil
}
