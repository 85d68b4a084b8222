package jetstream

import (
	"context"

	"github.com/google/wire"
	"github.com/nats-io/nats.go"

	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	Connect,
	LiveStore,
	wire.Bind(new(we.EventStore), new(*EventStore)),
)

type URL string

// Connect opens a NATS connection. The returned function drains it.
func Connect(url URL) (*nats.Conn, func(), error) {
	nc, err := nats.Connect(string(url), nats.Name("wee-counter"))
	if err != nil {
		return nil, nil, err
	}

	return nc, func() { _ = nc.Drain() }, nil
}

func LiveStore(name StreamName, connection *nats.Conn) (*EventStore, error) {
	return NewEventStore(name, connection)
}

func TestStore(ctx context.Context) (*EventStore, func(), error) {
	return NewTestStore(ctx)
}
