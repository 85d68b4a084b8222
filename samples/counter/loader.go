package counter

import "github.com/weegigs/wee-counter-go/we"

// Loader renders counters without the command side, for read-only callers.
func Loader(store we.EventStore) *we.EntityLoader[Counter] {
	return Descriptor().Loader(store)
}
