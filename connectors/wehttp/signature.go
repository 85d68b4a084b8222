package wehttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/weegigs/wee-counter-go/auth"
)

const (
	SignerHeader    = "X-Signer"
	SignatureHeader = "X-Signature"
	SignedAtHeader  = "X-Signed-At"

	DefaultSignatureWindow = 5 * time.Minute
)

var (
	ErrMissingSignature  = errors.New("missing request signature")
	ErrStaleSignature    = errors.New("request signature outside freshness window")
	ErrReplayedSignature = errors.New("request signature already used")
)

// signedMessage binds a body to the method, path and time it was signed
// for, so a signature cannot be reused against another entity.
func signedMessage(method string, path string, signedAt string, body []byte) []byte {
	return bytes.Join([][]byte{[]byte(method), []byte(path), []byte(signedAt), body}, []byte("\n"))
}

// verifier accepts each signature once while it is fresh. Used signatures
// are remembered for twice the window, which covers clock skew both ways.
type verifier struct {
	window time.Duration
	now    func() time.Time
	seen   *cache.Cache
}

func newVerifier(window time.Duration) *verifier {
	return &verifier{
		window: window,
		now:    time.Now,
		seen:   cache.New(2*window, window),
	}
}

// authenticate verifies the request signature and records the signer in
// the returned context.
func (v *verifier) authenticate(ctx context.Context, r *http.Request, body []byte) (context.Context, error) {
	signer, signature, signedAt := r.Header.Get(SignerHeader), r.Header.Get(SignatureHeader), r.Header.Get(SignedAtHeader)
	if signer == "" || signature == "" || signedAt == "" {
		return ctx, ErrMissingSignature
	}

	at, err := time.Parse(time.RFC3339Nano, signedAt)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", auth.ErrInvalidSignature, err)
	}

	if age := v.now().Sub(at); age > v.window || age < -v.window {
		return ctx, ErrStaleSignature
	}

	var envelope auth.ED25519
	if envelope.Signer, err = auth.ParseIdentity(signer); err != nil {
		return ctx, fmt.Errorf("%w: %v", auth.ErrInvalidSignature, err)
	}

	if envelope.Signature, err = auth.ParseSignature(signature); err != nil {
		return ctx, err
	}

	if err := envelope.Verify(ctx, signedMessage(r.Method, r.URL.Path, signedAt, body)); err != nil {
		return ctx, err
	}

	if err := v.seen.Add(signature, struct{}{}, cache.DefaultExpiration); err != nil {
		return ctx, ErrReplayedSignature
	}

	return auth.WithSigner(ctx, envelope.Actor()), nil
}

// Sign sets the signature headers of a request carrying body, signed now.
func Sign(r *http.Request, body []byte, key auth.PrivateKey) {
	SignAt(r, body, key, time.Now())
}

func SignAt(r *http.Request, body []byte, key auth.PrivateKey, at time.Time) {
	signedAt := at.UTC().Format(time.RFC3339Nano)
	envelope := auth.NewED25519(signedMessage(r.Method, r.URL.Path, signedAt, body), key)

	r.Header.Set(SignerHeader, envelope.Signer.String())
	r.Header.Set(SignatureHeader, envelope.Signature.String())
	r.Header.Set(SignedAtHeader, signedAt)
}
