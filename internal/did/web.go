package did

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	WebMethod = "web"

	wellKnownDIDDocument = "/.well-known/did.json"
	didDocumentFile      = "/did.json"
)

// WebResolver resolves did:web identifiers by fetching the DID document from
// the domain encoded in the identifier
// https://w3c-ccg.github.io/did-method-web/
type WebResolver struct {
	Client *http.Client
}

func NewWebResolver() *WebResolver {
	return &WebResolver{Client: http.DefaultClient}
}

func (r *WebResolver) Resolve(ctx context.Context, didStr string) (*ResolutionResult, error) {
	method, err := GetMethodForDID(didStr)
	if err != nil {
		return nil, err
	}
	if method != WebMethod {
		return nil, errors.Errorf("cannot resolve did<%s>: not a did:web", didStr)
	}

	location, err := documentLocation(didStr)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating http request")
	}
	response, err := r.Client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "performing http request")
	}
	defer func() {
		_ = response.Body.Close()
	}()

	// an absent document is a valid not-found outcome
	if response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusGone {
		return &ResolutionResult{}, nil
	}
	if response.StatusCode/100 != 2 {
		return nil, errors.Errorf("resolving did<%s>: got status %d", didStr, response.StatusCode)
	}

	var document Document
	if err = json.NewDecoder(response.Body).Decode(&document); err != nil {
		return nil, errors.Wrap(err, "decoding did document")
	}
	if document.ID != didStr {
		return nil, errors.Errorf("resolved document id<%s> does not match did<%s>", document.ID, didStr)
	}
	return &ResolutionResult{Document: &document}, nil
}

// documentLocation maps a did:web to the URL its document is served from:
// the well-known location for bare domains, <path>/did.json otherwise.
// Colons in the method specific id separate path segments; an encoded port
// stays with the domain.
func documentLocation(didStr string) (string, error) {
	id := strings.TrimPrefix(didStr, Prefix+WebMethod+":")
	if id == didStr || id == "" {
		return "", errors.Errorf("malformed did:web<%s>", didStr)
	}
	segments := strings.Split(id, ":")
	domain := strings.ReplaceAll(segments[0], "%3A", ":")
	if len(segments) == 1 {
		return "https://" + domain + wellKnownDIDDocument, nil
	}
	return "https://" + domain + "/" + strings.Join(segments[1:], "/") + didDocumentFile, nil
}
