package auth

import (
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const IdentityLen = ed25519.PublicKeySize

// Identity is an ed25519 public key naming an owner, signer or payer.
// Identities are compared by value only.
type Identity [IdentityLen]byte

var EmptyIdentity = Identity{}

func (id Identity) IsEmpty() bool {
	return id == EmptyIdentity
}

func (id Identity) Equal(other Identity) bool {
	return id == other
}

// String returns the base58 representation of id.
func (id Identity) String() string {
	return base58.Encode(id[:])
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(input []byte) error {
	parsed, err := ParseIdentity(string(input))
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

func ParseIdentity(s string) (Identity, error) {
	decoded := base58.Decode(s)
	if len(decoded) != IdentityLen {
		return EmptyIdentity, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, IdentityLen, len(decoded))
	}

	return Identity(decoded), nil
}
