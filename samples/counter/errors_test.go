package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

func TestErrors(t *testing.T) {
	cases := []struct {
		err     *Error
		code    uint32
		name    string
		message string
	}{
		{ErrUnauthorized, 6000, "Unauthorized", "You are not authorized to perform this action."},
		{ErrMaxCountExceeded, 6001, "MaxCountExceeded", "You cannot increment more."},
		{ErrMinCountSubceeded, 6002, "MinCountSubceeded", "You cannot decrement more."},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.code, c.err.Code())
			assert.Equal(t, c.name, c.err.Name())
			assert.Equal(t, c.message, c.err.Error())
			assert.Same(t, c.err, ErrorFromCode(c.code))
			assert.Same(t, c.err, ErrorFromName(c.name))

			var rejection we.Rejection = c.err
			assert.Equal(t, c.code, rejection.Code())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		assert.Nil(t, ErrorFromCode(6003))
		assert.Nil(t, ErrorFromName("Overflow"))
	})
}
