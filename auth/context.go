package auth

import "context"

type signerKey struct{}

// WithSigner records an identity the caller has already authenticated.
func WithSigner(ctx context.Context, signer Identity) context.Context {
	return context.WithValue(ctx, signerKey{}, signer)
}

func SignerOf(ctx context.Context) (Identity, bool) {
	signer, ok := ctx.Value(signerKey{}).(Identity)
	return signer, ok
}
