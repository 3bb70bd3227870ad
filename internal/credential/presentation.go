package credential

// ClaimerSignature is the holder's signature over a credential's root hash
type ClaimerSignature struct {
	// Key URI identifying the signing key within the claimer's DID document,
	// e.g. did:example:abcd#key-1
	KeyURI string `json:"keyUri"`
	// 0x-prefixed hex encoding of the signature bytes
	Signature string `json:"signature"`
	Challenge string `json:"challenge,omitempty"`
}

// Presentation is a credential wrapped with its claimer's signature, ready for
// transmission and verification
type Presentation struct {
	Credential
	ClaimerSignature ClaimerSignature `json:"claimerSignature"`
}
