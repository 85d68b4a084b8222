package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) PrivateKey {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)
	return key
}

func roundTripsIdentityText(t *testing.T) {
	id := newKey(t).Identity()

	parsed, err := ParseIdentity(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	encoded, err := json.Marshal(struct {
		Owner Identity `json:"owner"`
	}{Owner: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+id.String()+`"}`, string(encoded))
}

func rejectsShortIdentity(t *testing.T) {
	_, err := ParseIdentity("3yZe7d")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func verifiesSignatures(t *testing.T) {
	key := newKey(t)
	msg := []byte("counter:increment")

	envelope := NewED25519(msg, key)
	assert.NoError(t, envelope.Verify(context.Background(), msg))
	assert.Equal(t, key.Identity(), envelope.Actor())
	assert.Equal(t, key.Identity(), envelope.Sponsor())

	assert.ErrorIs(t, envelope.Verify(context.Background(), []byte("counter:decrement")), ErrInvalidSignature)

	other := newKey(t)
	forged := &ED25519{Signer: other.Identity(), Signature: envelope.Signature}
	assert.ErrorIs(t, forged.Verify(context.Background(), msg), ErrInvalidSignature)
}

func roundTripsSignatureText(t *testing.T) {
	sig := Sign([]byte("payload"), newKey(t))

	parsed, err := ParseSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
}

func carriesSignerInContext(t *testing.T) {
	_, ok := SignerOf(context.Background())
	assert.False(t, ok)

	id := newKey(t).Identity()
	signer, ok := SignerOf(WithSigner(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, signer)
}

func TestAuth(t *testing.T) {
	t.Run("round trips identity text", roundTripsIdentityText)
	t.Run("rejects short identity", rejectsShortIdentity)
	t.Run("verifies signatures", verifiesSignatures)
	t.Run("round trips signature text", roundTripsSignatureText)
	t.Run("carries signer in context", carriesSignerInContext)
}
