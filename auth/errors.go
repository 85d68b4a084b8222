package auth

import "errors"

var (
	ErrInvalidIdentity  = errors.New("invalid identity")
	ErrInvalidSignature = errors.New("invalid signature")
)
