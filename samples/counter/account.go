package counter

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"

	"github.com/near/borsh-go"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

const discriminatorSize = 8

// AccountDiscriminator prefixes every encoded counter account.
var AccountDiscriminator = discriminator("Counter")

var ErrInvalidAccount = errors.New("invalid counter account")

func discriminator(name string) [discriminatorSize]byte {
	var d [discriminatorSize]byte
	sum := sha256.Sum256([]byte("account:" + name))
	copy(d[:], sum[:discriminatorSize])

	return d
}

type account struct {
	Owner [32]byte
	Count uint64
}

// EncodeAccount writes a counter in its fixed-size account layout.
func EncodeAccount(counter Counter) ([]byte, error) {
	body, err := borsh.Serialize(account{Owner: counter.Owner, Count: counter.Count})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode counter account")
	}

	return append(AccountDiscriminator[:], body...), nil
}

func DecodeAccount(data []byte) (Counter, error) {
	if len(data) != Space {
		return Counter{}, errors.Wrapf(ErrInvalidAccount, "expected %d bytes, got %d", Space, len(data))
	}

	if !bytes.Equal(data[:discriminatorSize], AccountDiscriminator[:]) {
		return Counter{}, errors.Wrap(ErrInvalidAccount, "discriminator mismatch")
	}

	var decoded account
	if err := borsh.Deserialize(&decoded, data[discriminatorSize:]); err != nil {
		return Counter{}, errors.Wrap(err, "failed to decode counter account")
	}

	return Counter{Owner: decoded.Owner, Count: decoded.Count}, nil
}

// ResourceSerializer adds the encoded account to the counter resource.
func ResourceSerializer(entity *we.Entity[Counter]) (map[string]any, error) {
	resource, err := we.StateSerializer(entity)
	if err != nil {
		return nil, err
	}

	if entity.State == nil {
		return resource, nil
	}

	encoded, err := EncodeAccount(*entity.State)
	if err != nil {
		return nil, err
	}

	resource["$account"] = base64.StdEncoding.EncodeToString(encoded)

	return resource, nil
}

func ResourceEncoder() we.ResourceEncoder[Counter] {
	return we.ResourceEncoder[Counter]{Serializer: ResourceSerializer}
}
