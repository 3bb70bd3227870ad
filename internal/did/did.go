package did

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const Prefix = "did:"

// didRegex is the generic DID syntax from https://www.w3.org/TR/did-core/#did-syntax
var didRegex = regexp.MustCompile(`^did:[a-z0-9]+:[a-zA-Z0-9._%\-:]+$`)

// IsValid checks whether the given string is a syntactically valid DID
func IsValid(did string) bool {
	return didRegex.MatchString(did)
}

// GetMethodForDID gets a DID method from a did, the second part of the did (e.g. did:test:abcd, the method is 'test')
func GetMethodForDID(did string) (string, error) {
	split := strings.Split(did, ":")
	if len(split) < 3 {
		return "", errors.New("malformed did: did has fewer than three parts")
	}
	if split[0] != "did" {
		return "", errors.New("malformed did: did must start with `did`")
	}
	return split[1], nil
}

// FullyQualifiedVerificationMethodID turns a DID and a verification method fragment into a key URI,
// e.g. did:example:abcd + #key-1 -> did:example:abcd#key-1
func FullyQualifiedVerificationMethodID(did, fragment string) string {
	if strings.HasPrefix(fragment, Prefix) {
		return fragment
	}
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	return did + fragment
}

// DecomposeKeyURI splits a key URI into the DID and the verification method fragment it references
func DecomposeKeyURI(keyURI string) (did string, fragment string, err error) {
	did, fragment, found := strings.Cut(keyURI, "#")
	if !found || fragment == "" {
		return "", "", errors.Errorf("key uri<%s> missing verification method fragment", keyURI)
	}
	if !IsValid(did) {
		return "", "", errors.Errorf("key uri<%s> does not contain a valid did", keyURI)
	}
	return did, fragment, nil
}
