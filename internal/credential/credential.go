package credential

import (
	"bytes"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Credential is a claim plus the hashing and blinding metadata that enables
// selective disclosure. The root hash is the single digest binding the claim
// and its nonce map, and is the signable payload for presentations.
type Credential struct {
	Claim       Claim    `json:"claim"`
	ClaimHashes []string `json:"claimHashes"`
	// Blinding nonce per claimed statement, keyed by the statement's unsalted digest
	ClaimNonceMap map[string]string `json:"claimNonceMap"`
	RootHash      string            `json:"rootHash"`
	DelegationID  *string           `json:"delegationId,omitempty"`
	Legitimations []Credential      `json:"legitimations,omitempty"`
}

// New wraps a claim into a credential, computing per-statement blinding nonces
// and the root hash. Delegation and legitimations are empty in this flow.
func New(claim Claim) (*Credential, error) {
	statements, err := claimStatements(claim)
	if err != nil {
		return nil, errors.Wrap(err, "canonicalizing claim statements")
	}

	claimHashes := make([]string, 0, len(statements))
	nonceMap := make(map[string]string, len(statements))
	for _, statement := range statements {
		digest := blake2b.Sum256(statement)
		digestHex := BytesToHex(digest[:])
		nonce := uuid.NewString()
		nonceMap[digestHex] = nonce
		salted := blake2b.Sum256(append([]byte(nonce), digest[:]...))
		claimHashes = append(claimHashes, BytesToHex(salted[:]))
	}
	sort.Strings(claimHashes)

	rootHash, err := computeRootHash(claimHashes)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Claim:         claim,
		ClaimHashes:   claimHashes,
		ClaimNonceMap: nonceMap,
		RootHash:      rootHash,
	}, nil
}

// SignablePayload returns the raw root hash bytes, the payload claimers sign
// and verifiers check signatures over
func (c Credential) SignablePayload() ([]byte, error) {
	payload, err := HexToBytes(c.RootHash)
	if err != nil {
		return nil, errors.Wrap(err, "decoding root hash")
	}
	return payload, nil
}

// claimStatements canonicalizes a claim into one single-property JSON object
// per statement: each contents field, the owner, and the ctype hash. Sorted so
// the statement set is deterministic for a given claim.
func claimStatements(claim Claim) ([][]byte, error) {
	objects := []map[string]any{
		{"cTypeHash": claim.CTypeHash},
		{"owner": claim.Owner},
	}
	keys := make([]string, 0, len(claim.Contents))
	for key := range claim.Contents {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		objects = append(objects, map[string]any{key: claim.Contents[key]})
	}

	statements := make([][]byte, 0, len(objects))
	for _, object := range objects {
		statement, err := json.Marshal(object)
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}
	return statements, nil
}

// computeRootHash digests the concatenation of the sorted salted statement
// hashes. Delegation and legitimation hashes would be appended here if set.
func computeRootHash(claimHashes []string) (string, error) {
	var combined bytes.Buffer
	for _, claimHash := range claimHashes {
		hashBytes, err := HexToBytes(claimHash)
		if err != nil {
			return "", errors.Wrapf(err, "decoding claim hash<%s>", claimHash)
		}
		combined.Write(hashBytes)
	}
	rootHash := blake2b.Sum256(combined.Bytes())
	return BytesToHex(rootHash[:]), nil
}

// BytesToHex encodes bytes as a 0x-prefixed hex string
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// HexToBytes decodes a 0x-prefixed hex string
func HexToBytes(s string) ([]byte, error) {
	stripped := strings.TrimPrefix(s, "0x")
	if stripped == s {
		return nil, errors.Errorf("hex string<%s> missing 0x prefix", s)
	}
	return hex.DecodeString(stripped)
}
