package did

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ResolutionResult is the outcome of resolving a DID. An absent Document is a
// valid "not found" outcome rather than an error: the DID may have been
// deactivated or never registered.
type ResolutionResult struct {
	Document *Document `json:"didDocument,omitempty"`
}

// Resolver resolves a DID to its document. Implementations are supplied by
// callers and typically wrap a ledger or universal resolver client.
type Resolver interface {
	Resolve(ctx context.Context, did string) (*ResolutionResult, error)
}

// MultiMethodResolver dispatches resolution on the DID's method segment
type MultiMethodResolver struct {
	resolvers map[string]Resolver
	methods   []string
}

func NewMultiMethodResolver(resolvers map[string]Resolver) (*MultiMethodResolver, error) {
	if len(resolvers) == 0 {
		return nil, errors.New("no resolvers provided")
	}
	methods := make([]string, 0, len(resolvers))
	for method := range resolvers {
		methods = append(methods, method)
	}
	return &MultiMethodResolver{resolvers: resolvers, methods: methods}, nil
}

func (r *MultiMethodResolver) Resolve(ctx context.Context, did string) (*ResolutionResult, error) {
	method, err := GetMethodForDID(did)
	if err != nil {
		return nil, errors.Wrap(err, "getting method for did")
	}
	resolver, ok := r.resolvers[method]
	if !ok {
		logrus.Errorf("no resolver registered for method<%s>", method)
		return nil, errors.Errorf("unsupported method: %s", method)
	}
	return resolver.Resolve(ctx, did)
}

func (r *MultiMethodResolver) Methods() []string {
	return r.methods
}

// StaticResolver serves a fixed set of documents. Used for fixtures and for
// deployments where the linked DIDs are known ahead of time.
type StaticResolver struct {
	docs map[string]*Document
}

func NewStaticResolver(docs ...*Document) *StaticResolver {
	resolver := &StaticResolver{docs: make(map[string]*Document, len(docs))}
	for _, doc := range docs {
		resolver.Register(doc)
	}
	return resolver
}

func (r *StaticResolver) Register(doc *Document) {
	if doc.IsEmpty() {
		return
	}
	r.docs[doc.ID] = doc
}

// Deregister removes a document, after which the DID resolves to a not-found result
func (r *StaticResolver) Deregister(did string) {
	delete(r.docs, did)
}

func (r *StaticResolver) Resolve(_ context.Context, did string) (*ResolutionResult, error) {
	if !IsValid(did) {
		return nil, errors.Errorf("invalid did: %s", did)
	}
	doc, ok := r.docs[did]
	if !ok {
		return &ResolutionResult{}, nil
	}
	return &ResolutionResult{Document: doc}, nil
}
