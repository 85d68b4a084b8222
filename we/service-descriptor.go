package we

// ServiceDescriptor declares the commands, initializers and reducers of an
// entity type. Factories are invoked once when a service is created.
type ServiceDescriptor[T any] struct {
	Handlers     map[CommandName]func() CommandHandler[T]
	Initializers map[EventType]func() Initializer[T]
	Reducers     map[EventType]func() Reducer[T]
}

func (d ServiceDescriptor[T]) Renderer() *Renderer[T] {
	initializers := make(Initializers[T], len(d.Initializers))
	for name, initializer := range d.Initializers {
		initializers[name] = initializer()
	}

	reducers := make(Reducers[T], len(d.Reducers))
	for name, reducer := range d.Reducers {
		reducers[name] = reducer()
	}

	return &Renderer[T]{Initializers: initializers, Reducers: reducers}
}

func (d ServiceDescriptor[T]) Loader(store EventStore) *EntityLoader[T] {
	return &EntityLoader[T]{Loader: store.Load, Renderer: d.Renderer()}
}

func (d ServiceDescriptor[T]) Dispatcher(store EventStore, metrics *Metrics) *RoutedDispatcher[T] {
	handlers := make(CommandHandlers[T], len(d.Handlers))
	for name, handler := range d.Handlers {
		handlers[name] = handler()
	}

	return &RoutedDispatcher[T]{Publish: store.Publish, Handlers: handlers, Metrics: metrics}
}

func CreateService[T any](store EventStore, descriptor ServiceDescriptor[T], metrics *Metrics) EntityService[T] {
	return NewEntityService(descriptor.Loader(store), descriptor.Dispatcher(store, metrics))
}
