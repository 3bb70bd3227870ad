package keyaccess

import "sync"

// SignerRegistry holds the signing capabilities available to the hosting
// service, keyed by the DID they are bound to. Embedding applications
// register capabilities at startup; keys themselves are never persisted.
type SignerRegistry struct {
	mu      sync.RWMutex
	signers map[string]Signer
}

func NewSignerRegistry() *SignerRegistry {
	return &SignerRegistry{signers: make(map[string]Signer)}
}

func (r *SignerRegistry) Register(did string, signer Signer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signers[did] = signer
}

func (r *SignerRegistry) Get(did string) (Signer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	signer, ok := r.signers[did]
	return signer, ok
}
