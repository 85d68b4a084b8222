package counter

import (
	"context"

	"github.com/weegigs/wee-counter-go/auth"
	"github.com/weegigs/wee-counter-go/we"
)

// commands
func create() we.CommandHandler[Counter] {
	var handler we.CommandHandlerFunction[Counter, Create] = func(ctx context.Context, cmd Create, state we.Entity[Counter], publish we.EventPublisher) error {
		if cmd.Owner.IsEmpty() {
			return we.InvalidCommandError{Command: we.CommandNameOf(cmd), Err: ErrMissingOwner}
		}

		_, err := publish(ctx, state.Aggregate, we.Options(), Created{Owner: cmd.Owner})
		return err
	}

	return handler
}

func increment() we.CommandHandler[Counter] {
	var handler we.CommandHandlerFunction[Counter, Increment] = func(ctx context.Context, _ Increment, state we.Entity[Counter], publish we.EventPublisher) error {
		caller, ok := auth.SignerOf(ctx)
		if !ok {
			return we.ErrMissingSigner
		}

		next, err := ApplyIncrement(*state.State, caller)
		if err != nil {
			return err
		}

		_, err = publish(ctx, state.Aggregate, we.Options(), Incremented{Count: next.Count})
		return err
	}

	return handler
}

func decrement() we.CommandHandler[Counter] {
	var handler we.CommandHandlerFunction[Counter, Decrement] = func(ctx context.Context, _ Decrement, state we.Entity[Counter], publish we.EventPublisher) error {
		caller, ok := auth.SignerOf(ctx)
		if !ok {
			return we.ErrMissingSigner
		}

		next, err := ApplyDecrement(*state.State, caller)
		if err != nil {
			return err
		}

		_, err = publish(ctx, state.Aggregate, we.Options(), Decremented{Count: next.Count})
		return err
	}

	return handler
}
