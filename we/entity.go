package we

type EntityType string

func (et EntityType) String() string {
	return string(et)
}

type EntityTyped interface {
	EntityType() EntityType
}

func EntityTypeOf(state any) EntityType {
	if named, ok := state.(EntityTyped); ok {
		return named.EntityType()
	}

	return EntityType(NameOf(state))
}

// Sized is implemented by entity state with a fixed storage footprint.
// Allocating commands must reserve at least Space bytes.
type Sized interface {
	Space() int
}

// Entity is the rendered view of an aggregate. State is nil until an
// initializing event has been recorded.
type Entity[T any] struct {
	Aggregate AggregateId
	Revision  Revision
	Type      EntityType
	State     *T
}

func (e *Entity[T]) Initialized() bool {
	return e.State != nil
}
