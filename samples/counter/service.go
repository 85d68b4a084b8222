package counter

import (
	"github.com/weegigs/wee-counter-go/we"
)

func Descriptor() we.ServiceDescriptor[Counter] {
	initializers := map[we.EventType]func() we.Initializer[Counter]{
		we.EventTypeOf(Created{}): createdInitializer,
	}

	reducers := map[we.EventType]func() we.Reducer[Counter]{
		we.EventTypeOf(Incremented{}): incremented,
		we.EventTypeOf(Decremented{}): decremented,
	}

	handlers := map[we.CommandName]func() we.CommandHandler[Counter]{
		we.CommandNameOf(Create{}):    create,
		we.CommandNameOf(Increment{}): increment,
		we.CommandNameOf(Decrement{}): decrement,
	}

	return we.ServiceDescriptor[Counter]{
		Initializers: initializers,
		Reducers:     reducers,
		Handlers:     handlers,
	}
}

func CreateCounterService(store we.EventStore, metrics *we.Metrics) we.EntityService[Counter] {
	return we.CreateService(store, Descriptor(), metrics)
}

// Id addresses the counter stored under key.
func Id(key string) we.AggregateId {
	return we.AggregateId{Type: EntityType.String(), Key: key}
}
