package linkage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/origintrust/linkage-service/internal/credential"
	"github.com/origintrust/linkage-service/internal/did"
	"github.com/origintrust/linkage-service/internal/keyaccess"
)

// AssemblePresentation converts a signed credential presentation into the
// publishable DID configuration resource, re-verifying the claimer signature
// before attaching it as a self-signed proof. Pure except for the signature
// verification call; the presentation itself is never mutated.
func (s *Service) AssemblePresentation(ctx context.Context, request AssemblePresentationRequest) (*DIDConfigurationResource, error) {
	presentation := request.Presentation
	if presentation == nil {
		return nil, errors.New("presentation cannot be nil")
	}
	claim := presentation.Claim

	origin, ok := claim.GetOrigin()
	if !ok || claim.Owner == "" {
		return nil, errors.Wrap(ErrMalformedClaim, "claim must have origin contents and an owner")
	}
	if !did.IsValid(claim.Owner) {
		return nil, errors.Wrapf(ErrInvalidDID, "owner<%s>", claim.Owner)
	}
	if err := ValidateOrigin(origin); err != nil {
		return nil, err
	}

	// the claimer key must belong to the owner did before its document is
	// even consulted
	signerDID, _, err := did.DecomposeKeyURI(presentation.ClaimerSignature.KeyURI)
	if err != nil {
		return nil, errors.Wrapf(ErrSignatureVerification, "decomposing claimer key uri: %s", err.Error())
	}
	if signerDID != claim.Owner {
		return nil, errors.Wrapf(ErrSignatureVerification, "claimer key<%s> does not belong to owner<%s>", presentation.ClaimerSignature.KeyURI, claim.Owner)
	}

	payload, err := presentation.SignablePayload()
	if err != nil {
		return nil, errors.Wrap(ErrSignatureVerification, err.Error())
	}
	signature, err := credential.HexToBytes(presentation.ClaimerSignature.Signature)
	if err != nil {
		return nil, errors.Wrapf(ErrSignatureVerification, "decoding claimer signature: %s", err.Error())
	}
	if err = s.verifier.Verify(ctx, keyaccess.VerifySignatureRequest{
		Message:      payload,
		Signature:    signature,
		KeyURI:       presentation.ClaimerSignature.KeyURI,
		Relationship: did.AssertionMethod,
	}); err != nil {
		return nil, mapVerificationError(err)
	}

	id, err := credential.ToCredentialIRI(presentation.RootHash)
	if err != nil {
		return nil, errors.Wrap(err, "deriving credential id")
	}

	issuanceDate := s.Clock.Now().UTC()
	expirationDate := request.ExpirationDate
	if expirationDate.IsZero() {
		expirationDate = issuanceDate.Add(s.Validity)
	}

	return &DIDConfigurationResource{
		Context: DIDConfigurationContext,
		LinkedDIDs: []DomainLinkageCredential{{
			Context:        []string{CredentialsContext, DIDConfigurationContext},
			ID:             id,
			Issuer:         claim.Owner,
			IssuanceDate:   issuanceDate.Format(time.RFC3339),
			ExpirationDate: expirationDate.UTC().Format(time.RFC3339),
			Type:           DomainLinkageCredentialTypes,
			CredentialSubject: CredentialSubject{
				ID:       claim.Owner,
				Origin:   origin,
				RootHash: presentation.RootHash,
			},
			Proof: Proof{
				Type:               SelfSignedProofType,
				ProofPurpose:       did.AssertionMethod.String(),
				VerificationMethod: presentation.ClaimerSignature.KeyURI,
				Signature:          presentation.ClaimerSignature.Signature,
				Challenge:          presentation.ClaimerSignature.Challenge,
			},
		}},
	}, nil
}

// mapVerificationError folds key access failures into the linkage error taxonomy
func mapVerificationError(err error) error {
	if errors.Is(err, keyaccess.ErrResolution) {
		return errors.Wrap(ErrDIDResolution, err.Error())
	}
	return errors.Wrap(ErrSignatureVerification, err.Error())
}
