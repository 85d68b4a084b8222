package esdbs

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	LiveStore,
	wire.Bind(new(we.EventStore), new(*ESDBEventStore)),
)

var Test = wire.NewSet(
	TestStore,
	wire.Bind(new(we.EventStore), new(*ESDBEventStore)),
)

func TestStore(ctx context.Context) (*ESDBEventStore, func(), error) {
	return NewESDBTestStore(ctx)
}

func LiveStore(connection Connection) (*ESDBEventStore, error) {
	return NewConnectedStore(connection)
}
