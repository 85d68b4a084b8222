package counter

import "github.com/weegigs/wee-counter-go/we"

// initializers
func createdInitializer() we.Initializer[Counter] {
	var initializer we.InitializerFunction[Counter, Created] = func(evt *Created) (*Counter, error) {
		counter := NewCounter(evt.Owner)
		return &counter, nil
	}

	return initializer
}

// reducers
func incremented() we.Reducer[Counter] {
	var reducer we.ReducerFunction[Counter, Incremented] = func(counter *Counter, evt *Incremented) error {
		counter.Count = evt.Count
		return nil
	}

	return reducer
}

func decremented() we.Reducer[Counter] {
	var reducer we.ReducerFunction[Counter, Decremented] = func(counter *Counter, evt *Decremented) error {
		counter.Count = evt.Count
		return nil
	}

	return reducer
}
