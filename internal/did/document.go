package did

import (
	gocrypto "crypto"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/pkg/errors"
)

// Relationship is a verification relationship within a DID document
// https://www.w3.org/TR/did-core/#verification-relationships
type Relationship string

const (
	AssertionMethod Relationship = "assertionMethod"
	Authentication  Relationship = "authentication"
)

func (r Relationship) String() string {
	return string(r)
}

// Document is a minimal DID document model. Documents are supplied by resolvers;
// this layer never constructs them from ledger state itself.
type Document struct {
	Context            any                  `json:"@context,omitempty"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod,omitempty"`
	AssertionMethod    []string             `json:"assertionMethod,omitempty"`
	Authentication     []string             `json:"authentication,omitempty"`
	Services           []Service            `json:"service,omitempty"`
}

type VerificationMethod struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Controller   string          `json:"controller"`
	PublicKeyJWK json.RawMessage `json:"publicKeyJwk,omitempty"`
}

type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint any    `json:"serviceEndpoint"`
}

// PublicKey parses the verification method's JWK into a raw public key
func (vm VerificationMethod) PublicKey() (gocrypto.PublicKey, error) {
	if len(vm.PublicKeyJWK) == 0 {
		return nil, errors.Errorf("verification method<%s> has no publicKeyJwk", vm.ID)
	}
	key, err := jwk.ParseKey(vm.PublicKeyJWK)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing publicKeyJwk for verification method<%s>", vm.ID)
	}
	var pubKey gocrypto.PublicKey
	if err = key.Raw(&pubKey); err != nil {
		return nil, errors.Wrapf(err, "getting raw public key for verification method<%s>", vm.ID)
	}
	return pubKey, nil
}

// GetVerificationMethod returns the verification method matching the given id,
// which may be fully qualified or just a fragment. Nil if not found.
func (d Document) GetVerificationMethod(id string) *VerificationMethod {
	for i, vm := range d.VerificationMethod {
		if vm.ID == id || vm.ID == FullyQualifiedVerificationMethodID(d.ID, id) ||
			FullyQualifiedVerificationMethodID(d.ID, vm.ID) == FullyQualifiedVerificationMethodID(d.ID, id) {
			return &d.VerificationMethod[i]
		}
	}
	return nil
}

// RelationshipIDs returns the fully qualified verification method ids registered
// under the given verification relationship
func (d Document) RelationshipIDs(relationship Relationship) []string {
	var refs []string
	switch relationship {
	case AssertionMethod:
		refs = d.AssertionMethod
	case Authentication:
		refs = d.Authentication
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, FullyQualifiedVerificationMethodID(d.ID, ref))
	}
	return ids
}

// HasRelationship checks whether the given verification method id is registered
// under the given verification relationship
func (d Document) HasRelationship(relationship Relationship, vmID string) bool {
	qualified := FullyQualifiedVerificationMethodID(d.ID, vmID)
	for _, id := range d.RelationshipIDs(relationship) {
		if id == qualified {
			return true
		}
	}
	return false
}

// IsEmpty returns true if the document has no id, which means it was never populated
func (d *Document) IsEmpty() bool {
	return d == nil || d.ID == ""
}
