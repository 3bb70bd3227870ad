package linkage

import "github.com/pkg/errors"

// Every failure in the issuance and verification flows maps onto one of these
// conditions. None are recovered locally; each propagates to the caller as a
// hard stop. Use errors.Is to classify wrapped returns.
var (
	// ErrInvalidOrigin indicates an origin that is not an absolute, syntactically valid URL
	ErrInvalidOrigin = errors.New("origin is not a valid absolute url")
	// ErrInvalidDID indicates a syntactically invalid DID
	ErrInvalidDID = errors.New("invalid did")
	// ErrDIDResolution indicates the DID could not be resolved to a document,
	// e.g. it was deactivated or never registered
	ErrDIDResolution = errors.New("did did not resolve to a document")
	// ErrMissingAssertionKey indicates the resolved document exposes no assertion method key
	ErrMissingAssertionKey = errors.New("did document has no assertion method key")
	// ErrMalformedClaim indicates a claim missing its origin contents or owner
	ErrMalformedClaim = errors.New("claim is missing origin or owner")
	// ErrDIDMismatch indicates the credential subject is not the DID under test
	ErrDIDMismatch = errors.New("credential subject does not match expected did")
	// ErrIssuerMismatch indicates a domain linkage credential that is not self-issued
	ErrIssuerMismatch = errors.New("issuer does not match credential subject")
	// ErrOriginMismatch indicates the credential subject origin is not the origin under test
	ErrOriginMismatch = errors.New("credential subject origin does not match expected origin")
	// ErrSignatureVerification indicates the proof or claimer signature did not verify
	ErrSignatureVerification = errors.New("signature verification failed")
)
