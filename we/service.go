package we

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"go.opentelemetry.io/otel"
)

type EntityService[T any] interface {
	Load(ctx context.Context, id AggregateId) (Entity[T], error)
	Execute(ctx context.Context, id AggregateId, command Command) (Entity[T], error)
}

const tracerName = "events-service"

const conflictAttempts = 3

func NewEntityService[T any](loader *EntityLoader[T], dispatcher Dispatcher[T]) *entityService[T] {
	return &entityService[T]{
		loader:     loader,
		dispatcher: dispatcher,
	}
}

type entityService[T any] struct {
	loader     *EntityLoader[T]
	dispatcher Dispatcher[T]
}

func (s *entityService[T]) Load(ctx context.Context, id AggregateId) (Entity[T], error) {
	return s.loader.Load(ctx, id)
}

// Execute runs command against a freshly loaded entity. When another
// writer publishes between load and publish the whole step is repeated
// against the new state.
func (s *entityService[T]) Execute(ctx context.Context, id AggregateId, command Command) (Entity[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "execute command")
	defer span.End()

	var entity Entity[T]
	err := retry.Do(
		func() error {
			loaded, err := s.Load(ctx, id)
			if err != nil {
				return err
			}

			published, err := s.dispatcher.Dispatch(ctx, loaded, command)
			if err != nil {
				return err
			}

			if !published {
				entity = loaded
				return nil
			}

			entity, err = s.Load(ctx, id)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(conflictAttempts),
		retry.Delay(10*time.Millisecond),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, RevisionConflict)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return Entity[T]{}, err
	}

	return entity, nil
}
