package linkage

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/origintrust/linkage-service/internal/credential"
	"github.com/origintrust/linkage-service/internal/did"
	"github.com/origintrust/linkage-service/internal/keyaccess"
)

// VerifyResource checks a received DID configuration resource against the
// expected DID and origin. Every linked credential must verify: entries are
// checked concurrently and any single failure fails the whole resource, so
// when several entries are invalid the surfaced error is one representative
// failure, not a deterministic first.
func (s *Service) VerifyResource(ctx context.Context, resource *DIDConfigurationResource, expectedDID, expectedOrigin string) error {
	if resource == nil {
		return errors.New("resource cannot be nil")
	}
	if len(resource.LinkedDIDs) == 0 {
		return errors.New("resource has no linked dids")
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, linked := range resource.LinkedDIDs {
		linked := linked
		group.Go(func() error {
			return s.verifyLinkedCredential(groupCtx, linked, expectedDID, expectedOrigin)
		})
	}
	return group.Wait()
}

// verifyLinkedCredential enforces the domain linkage checks in order for a
// single credential entry
func (s *Service) verifyLinkedCredential(ctx context.Context, linked DomainLinkageCredential, expectedDID, expectedOrigin string) error {
	subject := linked.CredentialSubject

	if subject.ID != expectedDID {
		return errors.Wrapf(ErrDIDMismatch, "subject<%s> expected<%s>", subject.ID, expectedDID)
	}
	if !did.IsValid(subject.ID) {
		return errors.Wrapf(ErrInvalidDID, "subject<%s>", subject.ID)
	}
	// domain linkage credentials must be self-attested
	if linked.Issuer != subject.ID {
		return errors.Wrapf(ErrIssuerMismatch, "issuer<%s> subject<%s>", linked.Issuer, subject.ID)
	}
	if subject.Origin != expectedOrigin {
		return errors.Wrapf(ErrOriginMismatch, "subject origin<%s> expected<%s>", subject.Origin, expectedOrigin)
	}
	if err := ValidateOrigin(expectedOrigin); err != nil {
		return err
	}

	resolved, err := s.resolver.Resolve(ctx, subject.ID)
	if err != nil {
		return errors.Wrap(ErrDIDResolution, err.Error())
	}
	if resolved == nil || resolved.Document.IsEmpty() {
		return errors.Wrapf(ErrDIDResolution, "did<%s>", subject.ID)
	}
	if len(resolved.Document.RelationshipIDs(did.AssertionMethod)) == 0 {
		return errors.Wrapf(ErrMissingAssertionKey, "did<%s>", subject.ID)
	}

	if linked.Proof.Type != SelfSignedProofType {
		return errors.Wrapf(ErrSignatureVerification, "unexpected proof type<%s>", linked.Proof.Type)
	}
	if linked.Proof.ProofPurpose != did.AssertionMethod.String() {
		return errors.Wrapf(ErrSignatureVerification, "unexpected proof purpose<%s>", linked.Proof.ProofPurpose)
	}
	// the proof must be signed with the subject's own key; a resolvable
	// third-party key must not verify an envelope for someone else's did
	signerDID, _, err := did.DecomposeKeyURI(linked.Proof.VerificationMethod)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "decomposing proof verification method: %s", err.Error())
	}
	if signerDID != subject.ID {
		return errors.Wrapf(ErrSignatureVerification, "proof key<%s> does not belong to subject<%s>", linked.Proof.VerificationMethod, subject.ID)
	}

	rootHash, err := credential.FromCredentialIRI(linked.ID)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "recovering root hash from credential id: %s", err.Error())
	}
	payload, err := credential.HexToBytes(rootHash)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "decoding root hash: %s", err.Error())
	}
	signature, err := credential.HexToBytes(linked.Proof.Signature)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerification, "decoding proof signature: %s", err.Error())
	}
	if err = s.verifier.Verify(ctx, keyaccess.VerifySignatureRequest{
		Message:      payload,
		Signature:    signature,
		KeyURI:       linked.Proof.VerificationMethod,
		Relationship: did.AssertionMethod,
	}); err != nil {
		return mapVerificationError(err)
	}
	return nil
}
