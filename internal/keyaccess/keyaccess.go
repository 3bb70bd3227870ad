package keyaccess

import (
	"context"
	"crypto/ed25519"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/pkg/errors"
)

const Ed25519KeyType = "ed25519"

// SignResult is what a signing capability produces for a signable payload
type SignResult struct {
	Signature []byte
	KeyType   string
	// Key URI of the signing key within the signer's DID document
	KeyURI string
}

// Signer is a signing capability bound to a specific DID key. Callers supply
// one; the concrete key material may live behind a remote key-management
// service, so signing takes a context.
type Signer interface {
	Sign(ctx context.Context, data []byte) (*SignResult, error)
}

// Ed25519KeyAccess is a local in-memory Signer over an ed25519 private key
type Ed25519KeyAccess struct {
	keyURI string
	key    ed25519.PrivateKey
}

// NewEd25519KeyAccess creates an Ed25519KeyAccess bound to the given key URI
func NewEd25519KeyAccess(keyURI string, key ed25519.PrivateKey) (*Ed25519KeyAccess, error) {
	if keyURI == "" {
		return nil, errors.New("keyURI cannot be empty")
	}
	if len(key) == 0 {
		return nil, errors.New("key cannot be empty")
	}
	return &Ed25519KeyAccess{keyURI: keyURI, key: key}, nil
}

func (ka *Ed25519KeyAccess) Sign(_ context.Context, data []byte) (*SignResult, error) {
	if len(data) == 0 {
		return nil, errors.New("data cannot be empty")
	}
	return &SignResult{
		Signature: ed25519.Sign(ka.key, data),
		KeyType:   Ed25519KeyType,
		KeyURI:    ka.keyURI,
	}, nil
}

// PublicKeyJWK returns the signer's public key as a serialized JWK, suitable
// for embedding in a DID document verification method
func (ka *Ed25519KeyAccess) PublicKeyJWK() (json.RawMessage, error) {
	key, err := jwk.FromRaw(ka.key.Public())
	if err != nil {
		return nil, errors.Wrap(err, "constructing jwk from public key")
	}
	keyBytes, err := json.Marshal(key)
	if err != nil {
		return nil, errors.Wrap(err, "serializing jwk")
	}
	return keyBytes, nil
}
