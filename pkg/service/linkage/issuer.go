package linkage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/origintrust/linkage-service/internal/credential"
	"github.com/origintrust/linkage-service/internal/did"
	"github.com/origintrust/linkage-service/internal/keyaccess"
)

// BuildClaim constructs a domain linkage claim binding the given origin to the
// owner DID. The origin must be an absolute, syntactically valid URL.
func BuildClaim(origin, owner string) (*credential.Claim, error) {
	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}
	claim, err := credential.NewDomainLinkageClaim(origin, owner)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedClaim, err.Error())
	}
	return claim, nil
}

// IssueCredential builds and signs a credential presentation binding the
// request's DID to its origin. The signer must be a capability bound to an
// assertion method key of the DID's document; signing may touch a remote
// key-management service, which is the only side effect of this call.
func (s *Service) IssueCredential(ctx context.Context, request IssueCredentialRequest, signer keyaccess.Signer) (*credential.Presentation, error) {
	if signer == nil {
		return nil, errors.New("signer cannot be nil")
	}

	resolved, err := s.resolver.Resolve(ctx, request.DID)
	if err != nil {
		return nil, errors.Wrap(ErrDIDResolution, err.Error())
	}
	if resolved == nil || resolved.Document.IsEmpty() {
		return nil, errors.Wrapf(ErrDIDResolution, "did<%s>", request.DID)
	}
	document := resolved.Document

	claim, err := BuildClaim(request.Origin, document.ID)
	if err != nil {
		return nil, err
	}

	cred, err := credential.New(*claim)
	if err != nil {
		return nil, errors.Wrap(err, "wrapping claim into a credential")
	}

	assertionKeys := document.RelationshipIDs(did.AssertionMethod)
	if len(assertionKeys) == 0 {
		return nil, errors.Wrapf(ErrMissingAssertionKey, "did<%s>", document.ID)
	}

	payload, err := cred.SignablePayload()
	if err != nil {
		return nil, errors.Wrap(err, "getting signable payload")
	}
	signed, err := signer.Sign(ctx, payload)
	if err != nil {
		return nil, errors.Wrap(err, "signing credential root hash")
	}

	keyURI := signed.KeyURI
	if keyURI == "" {
		keyURI = assertionKeys[0]
	}
	if !document.HasRelationship(did.AssertionMethod, keyURI) {
		return nil, errors.Wrapf(ErrMissingAssertionKey, "signing key<%s> is not an assertion method key of did<%s>", keyURI, document.ID)
	}

	logrus.WithField("did", document.ID).Debug("issued domain linkage credential")
	return &credential.Presentation{
		Credential: *cred,
		ClaimerSignature: credential.ClaimerSignature{
			KeyURI:    keyURI,
			Signature: credential.BytesToHex(signed.Signature),
			Challenge: request.Challenge,
		},
	}, nil
}
