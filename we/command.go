package we

import (
	"context"
)

type CommandName string

func (name CommandName) String() string {
	return string(name)
}

type Command any

// RemoteCommand is a command received over the wire, decoded by the
// handler registered for its name.
type RemoteCommand struct {
	CommandName CommandName `json:"command"`
	Payload     Data        `json:"payload"`
}

func CommandNameOf(command Command) CommandName {
	var name CommandName
	switch cmd := command.(type) {
	case RemoteCommand:
		name = cmd.CommandName
	default:
		name = CommandName(NameOf(command))
	}

	return name
}

type CommandHandler[T any] interface {
	HandleCommand(ctx context.Context, cmd Command, state Entity[T], publish EventPublisher) error
	DecodeCommand(ctx context.Context, cmd RemoteCommand) (Command, error)
}

type CommandHandlerFunction[T any, C any] func(ctx context.Context, cmd C, state Entity[T], publish EventPublisher) error

func (f CommandHandlerFunction[T, C]) HandleCommand(ctx context.Context, cmd Command, state Entity[T], publish EventPublisher) error {
	command, ok := cmd.(C)
	if !ok {
		return UnexpectedCommand(cmd)
	}

	return f(ctx, command, state, publish)
}

func (f CommandHandlerFunction[T, C]) DecodeCommand(_ context.Context, cmd RemoteCommand) (Command, error) {
	var command C
	if err := UnmarshalFromData(cmd.Payload, &command); err != nil {
		return nil, err
	}

	return command, nil
}
