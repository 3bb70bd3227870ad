package linkage

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/origintrust/linkage-service/internal/util"
)

const fetchMaxRetries = 3

// VerifyOriginResponse reports the outcome of verifying a live origin. A
// failed check is reported via Reason rather than an error, mirroring how the
// result is served to API callers.
type VerifyOriginResponse struct {
	Verified bool `json:"verified"`
	// Raw DID configuration resource as served by the origin
	Resource string `json:"resource,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// FetchResource retrieves an origin's published DID configuration resource
// from its well-known location. Transport-level failures and 5xx responses
// are retried with exponential backoff; everything past the fetch is
// single-shot.
func (s *Service) FetchResource(ctx context.Context, origin string) (*DIDConfigurationResource, string, error) {
	if err := ValidateOrigin(origin); err != nil {
		return nil, "", err
	}
	location := origin + DIDConfigurationLocationSuffix

	var body []byte
	operation := func() error {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "creating http request"))
		}
		response, err := s.HTTPClient.Do(request)
		if err != nil {
			return errors.Wrap(err, "performing http request")
		}
		defer func() {
			_ = response.Body.Close()
		}()

		if response.StatusCode/100 == 5 {
			return errors.Errorf("origin returned %d", response.StatusCode)
		}
		if !util.Is2xxResponse(response.StatusCode) {
			return backoff.Permanent(errors.Errorf("expected 2xx code, got %d", response.StatusCode))
		}
		body, err = io.ReadAll(response.Body)
		if err != nil {
			return errors.Wrap(err, "reading response body")
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchMaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, "", errors.Wrapf(err, "fetching %s", util.SanitizeLog(location))
	}

	var resource DIDConfigurationResource
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&resource); err != nil {
		return nil, "", errors.Wrap(err, "decoding did configuration resource")
	}
	return &resource, string(body), nil
}

// VerifyOrigin fetches the origin's published resource and verifies it against
// the expected DID
func (s *Service) VerifyOrigin(ctx context.Context, expectedDID, origin string) (*VerifyOriginResponse, error) {
	resource, raw, err := s.FetchResource(ctx, origin)
	if err != nil {
		return nil, err
	}
	response := VerifyOriginResponse{Resource: raw}
	if err = s.VerifyResource(ctx, resource, expectedDID, origin); err != nil {
		logrus.WithError(err).Debugf("verification failed for origin<%s>", util.SanitizeLog(origin))
		response.Reason = err.Error()
		return &response, nil
	}
	response.Verified = true
	return &response, nil
}
