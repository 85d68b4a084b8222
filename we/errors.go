package we

import (
	"errors"
	"fmt"
)

var (
	ErrAccountInUse          = errors.New("account already in use")
	ErrAccountNotInitialized = errors.New("account not initialized")
	ErrMissingSigner         = errors.New("missing required signer")
	ErrInsufficientSpace     = errors.New("insufficient space reserved for account")
)

// Rejection is a terminal, caller-visible failure raised by entity logic.
type Rejection interface {
	error
	Code() uint32
	Name() string
}

type UnexpectedCommandError struct {
	Command CommandName
}

func (e UnexpectedCommandError) Error() string {
	return fmt.Sprintf("unexpected command %s", e.Command)
}

func UnexpectedCommand(command Command) error {
	return UnexpectedCommandError{Command: CommandNameOf(command)}
}

type CommandNotFoundError struct {
	Command CommandName
}

func (e CommandNotFoundError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Command)
}

func CommandNotFound(command CommandName) CommandNotFoundError {
	return CommandNotFoundError{Command: command}
}

// InvalidCommandError reports a remote command whose payload could not be
// decoded.
type InvalidCommandError struct {
	Command CommandName
	Err     error
}

func (e InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid %s command: %v", e.Command, e.Err)
}

func (e InvalidCommandError) Unwrap() error {
	return e.Err
}
