package keyaccess

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/origintrust/linkage-service/internal/did"
)

var (
	// ErrResolution is returned when the signer's DID cannot be resolved to a document
	ErrResolution = errors.New("could not resolve did to a document")
	// ErrKeyNotFound is returned when the key URI references no verification method
	ErrKeyNotFound = errors.New("key uri does not reference a verification method")
	// ErrRelationshipMismatch is returned when the key exists but is not registered
	// under the expected verification relationship
	ErrRelationshipMismatch = errors.New("verification method not registered under expected relationship")
	// ErrVerificationFailed is returned when the signature does not check out
	ErrVerificationFailed = errors.New("signature verification failed")
)

// VerifySignatureRequest carries everything needed to check a DID-bound signature
type VerifySignatureRequest struct {
	// Payload the signature was produced over
	Message []byte
	// Raw signature bytes
	Signature []byte
	// Key URI of the claimed signing key, e.g. did:example:abcd#key-1
	KeyURI string
	// Verification relationship the key must be registered under
	Relationship did.Relationship
}

// DIDSignatureVerifier independently checks signatures against key material
// referenced from a resolved DID document
type DIDSignatureVerifier struct {
	resolver did.Resolver
}

func NewDIDSignatureVerifier(resolver did.Resolver) (*DIDSignatureVerifier, error) {
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}
	return &DIDSignatureVerifier{resolver: resolver}, nil
}

// Verify resolves the key URI's DID, requires the referenced verification
// method under the expected relationship, and checks the signature over the
// message. Any failure is terminal; no retries are performed here.
func (v *DIDSignatureVerifier) Verify(ctx context.Context, request VerifySignatureRequest) error {
	signerDID, _, err := did.DecomposeKeyURI(request.KeyURI)
	if err != nil {
		return errors.Wrap(ErrKeyNotFound, err.Error())
	}

	resolved, err := v.resolver.Resolve(ctx, signerDID)
	if err != nil {
		return errors.Wrap(ErrResolution, err.Error())
	}
	if resolved == nil || resolved.Document.IsEmpty() {
		return errors.Wrapf(ErrResolution, "no document found for did<%s>", signerDID)
	}

	vm := resolved.Document.GetVerificationMethod(request.KeyURI)
	if vm == nil {
		return errors.Wrapf(ErrKeyNotFound, "key<%s>", request.KeyURI)
	}
	if !resolved.Document.HasRelationship(request.Relationship, vm.ID) {
		return errors.Wrapf(ErrRelationshipMismatch, "key<%s> not a %s key", request.KeyURI, request.Relationship)
	}

	pubKey, err := vm.PublicKey()
	if err != nil {
		return errors.Wrap(ErrVerificationFailed, err.Error())
	}
	edKey, ok := pubKey.(ed25519.PublicKey)
	if !ok {
		return errors.Wrapf(ErrVerificationFailed, "unsupported key type for key<%s>", request.KeyURI)
	}
	if !ed25519.Verify(edKey, request.Message, request.Signature) {
		return errors.Wrapf(ErrVerificationFailed, "signature by key<%s> is invalid", request.KeyURI)
	}
	return nil
}
