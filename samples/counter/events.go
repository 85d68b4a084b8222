package counter

import (
	"github.com/weegigs/wee-counter-go/auth"
)

type Created struct {
	Owner auth.Identity `json:"owner"`
}

// Incremented and Decremented carry the resulting count.
type Incremented struct {
	Count uint64 `json:"count"`
}

type Decremented struct {
	Count uint64 `json:"count"`
}
