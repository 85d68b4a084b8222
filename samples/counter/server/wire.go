//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-counter-go/stores/esdbs"
	"github.com/weegigs/wee-counter-go/stores/jetstream"
	"github.com/weegigs/wee-counter-go/stores/rds"
	"github.com/weegigs/wee-counter-go/we"
)

func dynamoStore(ctx context.Context) (we.EventStore, func(), error) {
	panic(wire.Build(Live))
}

func localStore(ctx context.Context) (we.EventStore, func(), error) {
	panic(wire.Build(Local))
}

func esdbStore(connection esdbs.Connection) (we.EventStore, func(), error) {
	panic(wire.Build(ESDB))
}

func jetstreamStore(url jetstream.URL, stream jetstream.StreamName) (we.EventStore, func(), error) {
	panic(wire.Build(JetStream))
}

func redisStore(ctx context.Context, address rds.Address) (we.EventStore, func(), error) {
	panic(wire.Build(Redis))
}
