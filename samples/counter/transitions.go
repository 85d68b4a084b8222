package counter

import "github.com/weegigs/wee-counter-go/auth"

// NewCounter is the state of a freshly created counter.
func NewCounter(owner auth.Identity) Counter {
	return Counter{Owner: owner, Count: 0}
}

// ApplyIncrement checks the caller owns the record before checking the
// bound, so a stranger never learns the count.
func ApplyIncrement(record Counter, caller auth.Identity) (Counter, error) {
	if !caller.Equal(record.Owner) {
		return record, ErrUnauthorized
	}

	if record.Count >= MaxCount {
		return record, ErrMaxCountExceeded
	}

	record.Count++
	return record, nil
}

func ApplyDecrement(record Counter, caller auth.Identity) (Counter, error) {
	if !caller.Equal(record.Owner) {
		return record, ErrUnauthorized
	}

	if record.Count == 0 {
		return record, ErrMinCountSubceeded
	}

	record.Count--
	return record, nil
}
