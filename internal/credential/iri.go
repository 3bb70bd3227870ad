package credential

import (
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// CredentialIRIPrefix is the scheme prefix for credential identifiers. A
// credential id is the base58 encoding of its root hash under this prefix;
// the transform is exactly reversible and part of the published wire format.
const CredentialIRIPrefix = "kilt:cred:"

// ToCredentialIRI encodes a credential root hash as an IRI
func ToCredentialIRI(rootHash string) (string, error) {
	hashBytes, err := HexToBytes(rootHash)
	if err != nil {
		return "", errors.Wrap(err, "decoding root hash")
	}
	return CredentialIRIPrefix + base58.Encode(hashBytes), nil
}

// FromCredentialIRI recovers the root hash out of a credential IRI, the exact
// inverse of ToCredentialIRI
func FromCredentialIRI(iri string) (string, error) {
	encoded := strings.TrimPrefix(iri, CredentialIRIPrefix)
	if encoded == iri {
		return "", errors.Errorf("credential iri<%s> missing %s prefix", iri, CredentialIRIPrefix)
	}
	hashBytes, err := base58.Decode(encoded)
	if err != nil {
		return "", errors.Wrapf(err, "decoding credential iri<%s>", iri)
	}
	return BytesToHex(hashBytes), nil
}
