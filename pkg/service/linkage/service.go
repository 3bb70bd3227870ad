package linkage

import (
	"net/http"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/origintrust/linkage-service/internal/did"
	"github.com/origintrust/linkage-service/internal/keyaccess"
	svcframework "github.com/origintrust/linkage-service/pkg/service/framework"
	"github.com/origintrust/linkage-service/pkg/storage"
)

// Service issues and verifies domain linkage credentials. It holds no state
// across calls beyond its collaborators; each issuance or verification is a
// pure transformation plus external resolution and signature calls.
type Service struct {
	resolver did.Resolver
	verifier *keyaccess.DIDSignatureVerifier
	storage  storage.ServiceStorage

	// Clock drives issuance and default expiration dates; swap for a mock in tests
	Clock clock.Clock
	// HTTPClient fetches remote well-known resources
	HTTPClient *http.Client
	// Validity is applied when assembly requests carry no expiration
	Validity time.Duration
}

// NewService builds a linkage service around a caller-supplied resolver.
// Storage may be nil for library-only use; hosting endpoints require it.
func NewService(resolver did.Resolver, s storage.ServiceStorage) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}
	verifier, err := keyaccess.NewDIDSignatureVerifier(resolver)
	if err != nil {
		return nil, errors.Wrap(err, "could not instantiate signature verifier for the linkage service")
	}
	return &Service{
		resolver:   resolver,
		verifier:   verifier,
		storage:    s,
		Clock:      clock.New(),
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Validity:   DefaultValidity,
	}, nil
}

func (s *Service) Type() svcframework.Type {
	return svcframework.Linkage
}

func (s *Service) Status() svcframework.Status {
	return svcframework.Status{Status: svcframework.StatusReady}
}

var _ svcframework.Service = (*Service)(nil)

// ValidateOrigin checks that the given origin is an absolute, syntactically
// valid URL. Fails with ErrInvalidOrigin otherwise.
func ValidateOrigin(origin string) error {
	parsed, err := url.Parse(origin)
	if err != nil {
		return errors.Wrapf(ErrInvalidOrigin, "parsing origin<%s>: %s", origin, err.Error())
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return errors.Wrapf(ErrInvalidOrigin, "origin<%s> is not absolute", origin)
	}
	return nil
}
