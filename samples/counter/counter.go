package counter

import (
	"github.com/weegigs/wee-counter-go/auth"
	"github.com/weegigs/wee-counter-go/we"
)

const EntityType = we.EntityType("counter")

// MaxCount is the upper bound of Count. A counter only ever holds 0 or 1.
const MaxCount uint64 = 1

// Space is the stored size of a counter account: discriminator, owner and
// count.
const Space = discriminatorSize + auth.IdentityLen + 8

type Counter struct {
	Owner auth.Identity `json:"owner"`
	Count uint64        `json:"count"`
}

func (Counter) EntityType() we.EntityType {
	return EntityType
}

func (Counter) Space() int {
	return Space
}
