package rds

import (
	"context"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	Client,
	LiveStore,
	wire.Bind(new(we.EventStore), new(*EventStore)),
)

type Address string

// Client connects to Redis and checks the connection. The returned
// function closes it.
func Client(ctx context.Context, address Address) (*redis.Client, func(), error) {
	rdb := redis.NewClient(&redis.Options{Addr: string(address)})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	return rdb, func() { _ = rdb.Close() }, nil
}

func LiveStore(rdb *redis.Client) *EventStore {
	return NewEventStore(rdb)
}

func TestStore(ctx context.Context) (*EventStore, func(), error) {
	return NewTestStore(ctx)
}
