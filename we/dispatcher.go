package we

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/weegigs/wee-counter-go/auth"
)

type CommandHandlers[T any] map[CommandName]CommandHandler[T]

type Dispatcher[T any] interface {
	Dispatch(ctx context.Context, entity Entity[T], command Command) (bool, error)
}

// RoutedDispatcher routes commands to handlers by name. Before a handler
// runs it checks the call is signed and that the entity is in the right
// lifecycle state for the command: allocating commands need a fresh slot
// and enough reserved space, all others need an initialized entity.
type RoutedDispatcher[T any] struct {
	Publish  EventPublisher
	Handlers CommandHandlers[T]
	Metrics  *Metrics
}

func (d *RoutedDispatcher[T]) Dispatch(ctx context.Context, entity Entity[T], command Command) (published bool, err error) {
	commandName := CommandNameOf(command)

	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("dispatch %s", commandName))
	defer span.End()
	defer func() { d.Metrics.observe(commandName, err) }()

	handler := d.Handlers[commandName]
	if handler == nil {
		return false, CommandNotFound(commandName)
	}

	if remote, ok := command.(RemoteCommand); ok {
		command, err = handler.DecodeCommand(ctx, remote)
		if err != nil {
			return false, InvalidCommandError{Command: commandName, Err: err}
		}
	}

	publish, err := admit(ctx, entity, command, d.Publish)
	if err != nil {
		return false, err
	}

	tracking := &trackingPublisher{publish: publish}
	if err := handler.HandleCommand(ctx, command, entity, tracking.Publish); err != nil {
		return tracking.published, err
	}

	return tracking.published, nil
}

func admit[T any](ctx context.Context, entity Entity[T], command Command, publish EventPublisher) (EventPublisher, error) {
	signer, ok := auth.SignerOf(ctx)
	if !ok {
		return nil, ErrMissingSigner
	}

	allocator, allocates := command.(Allocator)
	if !allocates {
		if !entity.Initialized() {
			return nil, ErrAccountNotInitialized
		}

		return guarded(entity.Revision, publish), nil
	}

	if entity.Revision != InitialRevision {
		return nil, ErrAccountInUse
	}

	space, required := allocator.Allocation(), requiredSpace[T]()
	if space < required {
		return nil, fmt.Errorf("%w: reserved %d bytes, need %d", ErrInsufficientSpace, space, required)
	}

	return allocating(Allocated{Payer: signer, Space: space}, publish), nil
}

// guarded publishes against the revision the command was checked against,
// so a concurrent writer surfaces as a RevisionConflict.
func guarded(revision Revision, publish EventPublisher) EventPublisher {
	return func(ctx context.Context, aggregateId AggregateId, options PublishOptions, events ...DomainEvent) (Revision, error) {
		if options.ExpectedRevision == "" {
			options.ExpectedRevision = revision
		}

		published, err := publish(ctx, aggregateId, options, events...)
		if err != nil {
			return published, err
		}

		revision = published
		return published, nil
	}
}

// allocating records the allocation in the same change set as the first
// events published, at the initial revision.
func allocating(allocation Allocated, publish EventPublisher) EventPublisher {
	var next EventPublisher

	return func(ctx context.Context, aggregateId AggregateId, options PublishOptions, events ...DomainEvent) (Revision, error) {
		if next != nil {
			return next(ctx, aggregateId, options, events...)
		}

		options.ExpectedRevision = InitialRevision
		published, err := publish(ctx, aggregateId, options, append([]DomainEvent{allocation}, events...)...)
		if err != nil {
			return published, err
		}

		next = guarded(published, publish)
		return published, nil
	}
}

type trackingPublisher struct {
	publish   EventPublisher
	published bool
}

func (p *trackingPublisher) Publish(ctx context.Context, aggregateId AggregateId, options PublishOptions, events ...DomainEvent) (Revision, error) {
	revision, err := p.publish(ctx, aggregateId, options, events...)
	if err != nil {
		return revision, err
	}

	p.published = p.published || len(events) > 0

	return revision, nil
}
