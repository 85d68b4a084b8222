package we

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestCommand struct{}

type TestNamedCommand struct {
	Value string `json:"value"`
}

func (TestNamedCommand) TypeName() string {
	return "test:named"
}

func resolvesExplicitName(t *testing.T) {
	assert.Equal(t, CommandName("test:named"), CommandNameOf(TestNamedCommand{}))
}

func resolvesImplicitName(t *testing.T) {
	assert.Equal(t, CommandName("we:test-command"), CommandNameOf(TestCommand{}))
}

func resolvesRemoteName(t *testing.T) {
	assert.Equal(t, CommandName("test:remote"), CommandNameOf(RemoteCommand{CommandName: "test:remote"}))
}

func decodesRemoteCommand(t *testing.T) {
	var handler CommandHandlerFunction[struct{}, TestNamedCommand] = func(ctx context.Context, cmd TestNamedCommand, state Entity[struct{}], publish EventPublisher) error {
		return nil
	}

	payload, err := MarshalToData(TestNamedCommand{Value: "remote"})
	if !assert.Nil(t, err) {
		return
	}

	decoded, err := handler.DecodeCommand(context.Background(), RemoteCommand{CommandName: "test:named", Payload: payload})
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, TestNamedCommand{Value: "remote"}, decoded)
}

func rejectsUnsupportedEncoding(t *testing.T) {
	var handler CommandHandlerFunction[struct{}, TestNamedCommand] = func(ctx context.Context, cmd TestNamedCommand, state Entity[struct{}], publish EventPublisher) error {
		return nil
	}

	_, err := handler.DecodeCommand(context.Background(), RemoteCommand{
		CommandName: "test:named",
		Payload:     Data{Encoding: "application/cbor"},
	})

	var invalid *InvalidEncodingError
	assert.ErrorAs(t, err, &invalid)
}

func rejectsUnexpectedCommand(t *testing.T) {
	var handler CommandHandlerFunction[struct{}, TestNamedCommand] = func(ctx context.Context, cmd TestNamedCommand, state Entity[struct{}], publish EventPublisher) error {
		return nil
	}

	err := handler.HandleCommand(context.Background(), TestCommand{}, Entity[struct{}]{}, nil)
	assert.Equal(t, UnexpectedCommandError{Command: "we:test-command"}, err)
}

func TestCommands(t *testing.T) {
	t.Run("resolves explicit name", resolvesExplicitName)
	t.Run("resolves implicit name", resolvesImplicitName)
	t.Run("resolves remote name", resolvesRemoteName)
	t.Run("decodes remote command", decodesRemoteCommand)
	t.Run("rejects unsupported encoding", rejectsUnsupportedEncoding)
	t.Run("rejects unexpected command", rejectsUnexpectedCommand)
}
