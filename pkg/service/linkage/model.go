package linkage

import (
	"time"

	"github.com/origintrust/linkage-service/internal/credential"
)

const (
	// DIDConfigurationContext is the DID Configuration JSON-LD context URI
	DIDConfigurationContext = "https://identity.foundation/.well-known/did-configuration/v1"
	// CredentialsContext is the W3C verifiable credentials context URI
	CredentialsContext = "https://www.w3.org/2018/credentials/v1"
	// DIDConfigurationLocationSuffix is where the resource is hosted relative to an origin
	DIDConfigurationLocationSuffix = "/.well-known/did-configuration.json"

	// SelfSignedProofType is the proof type for the self-signed proof attached
	// to each linked credential
	SelfSignedProofType = "KILTSelfSigned2020"

	// DefaultValidity is the service's validity period unless configured otherwise
	DefaultValidity = 5 * 365 * 24 * time.Hour
)

// DomainLinkageCredentialTypes is the fixed three-member type array of every
// linked credential. Order and members are part of the wire format.
var DomainLinkageCredentialTypes = []string{"VerifiableCredential", "DomainLinkageCredential", "KiltCredential2020"}

// DIDConfigurationResource is the JSON-LD document published at an origin's
// well-known location. Field names and nesting are fixed for interoperability
// with third-party verifiers.
type DIDConfigurationResource struct {
	Context    any                       `json:"@context" validate:"required"`
	LinkedDIDs []DomainLinkageCredential `json:"linked_dids" validate:"required"`
}

// DomainLinkageCredential asserts control of both a DID and a web origin
type DomainLinkageCredential struct {
	Context []string `json:"@context"`
	// Credential id, the reversible IRI encoding of the credential's root hash
	ID                string            `json:"id"`
	Issuer            string            `json:"issuer"`
	IssuanceDate      string            `json:"issuanceDate"`
	ExpirationDate    string            `json:"expirationDate"`
	Type              []string          `json:"type"`
	CredentialSubject CredentialSubject `json:"credentialSubject"`
	Proof             Proof             `json:"proof"`
}

type CredentialSubject struct {
	ID       string `json:"id"`
	Origin   string `json:"origin"`
	RootHash string `json:"rootHash"`
}

// Proof is the self-signed proof carried by each linked credential. It is the
// claimer's signature re-expressed in linked-data-proof shape.
type Proof struct {
	Type               string `json:"type"`
	ProofPurpose       string `json:"proofPurpose"`
	VerificationMethod string `json:"verificationMethod"`
	Signature          string `json:"signature"`
	Challenge          string `json:"challenge,omitempty"`
}

// IssueCredentialRequest carries the inputs for issuing a signed credential presentation
type IssueCredentialRequest struct {
	// DID whose control is being asserted; must resolve to a document
	DID string
	// Origin the DID is being bound to
	Origin string
	// Optional challenge echoed into the claimer signature
	Challenge string
}

// AssemblePresentationRequest turns a signed credential presentation into the
// publishable DID configuration resource
type AssemblePresentationRequest struct {
	Presentation *credential.Presentation
	// Zero value means issuance time plus DefaultValidity
	ExpirationDate time.Time
}
