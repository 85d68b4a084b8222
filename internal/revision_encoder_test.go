package internal

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestRevisionEncoder(t *testing.T) {
	now := ulid.Timestamp(time.Now())

	t.Run("round trips sequence numbers", func(t *testing.T) {
		revision, err := EncodeRevision(now, 4242, 3)
		if !assert.Nil(t, err) {
			return
		}

		sequence, err := DecodeSequenceNumber(revision)
		assert.Nil(t, err)
		assert.Equal(t, uint64(4242), sequence)
	})

	t.Run("orders by sequence then index", func(t *testing.T) {
		first, _ := EncodeRevision(now, 7, 0)
		second, _ := EncodeRevision(now, 7, 1)
		third, _ := EncodeRevision(now, 8, 0)

		assert.Less(t, first.String(), second.String())
		assert.Less(t, second.String(), third.String())
	})

	t.Run("rejects invalid revisions", func(t *testing.T) {
		_, err := DecodeSequenceNumber("not-a-revision")
		assert.Error(t, err)
	})
}
