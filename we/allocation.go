package we

import (
	"github.com/weegigs/wee-counter-go/auth"
)

// Allocator is implemented by commands that bring an entity into
// existence. Allocation reports the bytes the caller reserves.
type Allocator interface {
	Allocation() int
}

const AllocatedEvent = EventType("we:allocated")

// Allocated is recorded ahead of the events of an allocating command.
type Allocated struct {
	Payer auth.Identity `json:"payer"`
	Space int           `json:"space"`
}

func (Allocated) EventType() EventType {
	return AllocatedEvent
}

func requiredSpace[T any]() int {
	var state T
	if sized, ok := any(state).(Sized); ok {
		return sized.Space()
	}

	if sized, ok := any(&state).(Sized); ok {
		return sized.Space()
	}

	return 0
}
