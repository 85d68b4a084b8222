package counter

import (
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/auth"
)

var ErrMissingOwner = errors.New("counter owner is required")

// Create allocates a counter for Owner. The signer pays for the
// allocation and does not need to be the owner. Reserve defaults to Space.
type Create struct {
	Owner   auth.Identity `json:"owner"`
	Reserve int           `json:"reserve,omitempty"`
}

func (c Create) Allocation() int {
	if c.Reserve == 0 {
		return Space
	}

	return c.Reserve
}

type Increment struct{}

type Decrement struct{}
