package counter

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/we"
)

func encodesFixedLayout(t *testing.T) {
	encoded, err := EncodeAccount(Counter{Owner: owner, Count: 1})
	require.NoError(t, err)

	assert.Len(t, encoded, Space)
	assert.Equal(t, AccountDiscriminator[:], encoded[:8])
	assert.Equal(t, owner[:], encoded[8:40])
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, encoded[40:])
}

func decodesEncodedAccount(t *testing.T) {
	counter := Counter{Owner: owner, Count: 1}

	encoded, err := EncodeAccount(counter)
	require.NoError(t, err)

	decoded, err := DecodeAccount(encoded)
	require.NoError(t, err)
	assert.Equal(t, counter, decoded)
}

func rejectsWrongSize(t *testing.T) {
	_, err := DecodeAccount(make([]byte, Space-1))
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func rejectsWrongDiscriminator(t *testing.T) {
	encoded, err := EncodeAccount(Counter{Owner: owner})
	require.NoError(t, err)

	encoded[0] ^= 0xff
	_, err = DecodeAccount(encoded)
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func serializesAccountIntoResource(t *testing.T) {
	counter := Counter{Owner: owner, Count: 1}
	entity := we.Entity[Counter]{
		Aggregate: Id("resource"),
		Revision:  we.InitialRevision,
		Type:      EntityType,
		State:     &counter,
	}

	resource, err := ResourceEncoder().Resource(&entity)
	require.NoError(t, err)

	assert.Equal(t, owner.String(), resource["owner"])
	assert.EqualValues(t, 1, resource["count"])

	account, err := base64.StdEncoding.DecodeString(resource["$account"].(string))
	require.NoError(t, err)

	decoded, err := DecodeAccount(account)
	require.NoError(t, err)
	assert.Equal(t, counter, decoded)
}

func TestAccount(t *testing.T) {
	assert.Equal(t, 48, Space)

	t.Run("encodes fixed layout", encodesFixedLayout)
	t.Run("decodes encoded account", decodesEncodedAccount)
	t.Run("rejects wrong size", rejectsWrongSize)
	t.Run("rejects wrong discriminator", rejectsWrongDiscriminator)
	t.Run("serializes account into resource", serializesAccountIntoResource)
}
