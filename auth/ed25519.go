package auth

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hdevalence/ed25519consensus"
)

const (
	PrivateKeyLen     = ed25519.PrivateKeySize
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize
)

type (
	PrivateKey [PrivateKeyLen]byte
	Signature  [SignatureLen]byte
)

var (
	EmptyPrivateKey = PrivateKey{}
	EmptySignature  = Signature{}
)

func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}

	return PrivateKey(k), nil
}

// Identity returns the public half of p, stored in its last 32 bytes.
func (p PrivateKey) Identity() Identity {
	return Identity(p[PrivateKeySeedLen:])
}

func Sign(msg []byte, pk PrivateKey) Signature {
	return Signature(ed25519.Sign(pk[:], msg))
}

// Verify checks s against msg using ZIP-215 validation rules.
func Verify(msg []byte, id Identity, s Signature) bool {
	return ed25519consensus.Verify(id[:], msg, s[:])
}

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func ParseSignature(v string) (Signature, error) {
	decoded := base58.Decode(v)
	if len(decoded) != SignatureLen {
		return EmptySignature, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLen, len(decoded))
	}

	return Signature(decoded), nil
}

// ED25519 is a signed envelope presented by a caller. The signer both acts
// on the entity and sponsors any storage the call allocates.
type ED25519 struct {
	Signer    Identity  `json:"signer"`
	Signature Signature `json:"signature"`
}

func (d *ED25519) Verify(_ context.Context, msg []byte) error {
	if !Verify(msg, d.Signer, d.Signature) {
		return ErrInvalidSignature
	}

	return nil
}

func (d *ED25519) Actor() Identity {
	return d.Signer
}

func (d *ED25519) Sponsor() Identity {
	return d.Signer
}

func NewED25519(msg []byte, pk PrivateKey) *ED25519 {
	return &ED25519{
		Signer:    pk.Identity(),
		Signature: Sign(msg, pk),
	}
}

func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(input []byte) error {
	parsed, err := ParseSignature(string(input))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
