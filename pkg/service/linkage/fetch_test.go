package linkage

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const fetchTestOrigin = "https://identity.example.com"

func interceptClient(t *testing.T, service *Service) {
	t.Helper()
	service.HTTPClient = &http.Client{}
	gock.InterceptClient(service.HTTPClient)
	t.Cleanup(gock.Off)
}

func assembleForOrigin(t *testing.T, service *Service, identity *testIdentity, origin string) *DIDConfigurationResource {
	t.Helper()
	ctx := context.Background()
	presentation, err := service.IssueCredential(ctx, IssueCredentialRequest{DID: identity.did, Origin: origin}, identity.signer)
	require.NoError(t, err)
	resource, err := service.AssemblePresentation(ctx, AssemblePresentationRequest{Presentation: presentation})
	require.NoError(t, err)
	return resource
}

func TestFetchResource(t *testing.T) {
	identity := newTestIdentity(t, testDID)
	service, _ := newTestService(t, identity)
	interceptClient(t, service)
	ctx := context.Background()

	t.Run("fetches and decodes the resource", func(t *testing.T) {
		published := assembleForOrigin(t, service, identity, fetchTestOrigin)
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusOK).
			JSON(published)

		resource, raw, err := service.FetchResource(ctx, fetchTestOrigin)
		require.NoError(t, err)
		assert.NotEmpty(t, raw)
		require.Len(t, resource.LinkedDIDs, 1)
		assert.Empty(t, cmp.Diff(published.LinkedDIDs, resource.LinkedDIDs))
	})

	t.Run("invalid origin", func(t *testing.T) {
		_, _, err := service.FetchResource(ctx, "not a url")
		assert.ErrorIs(t, err, ErrInvalidOrigin)
	})

	t.Run("not found is not retried", func(t *testing.T) {
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusNotFound)

		_, _, err := service.FetchResource(ctx, fetchTestOrigin)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("server errors are retried", func(t *testing.T) {
		published := assembleForOrigin(t, service, identity, fetchTestOrigin)
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusBadGateway)
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusOK).
			JSON(published)

		resource, _, err := service.FetchResource(ctx, fetchTestOrigin)
		require.NoError(t, err)
		assert.Len(t, resource.LinkedDIDs, 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusOK).
			BodyString("{\"@context\": [1,")

		_, _, err := service.FetchResource(ctx, fetchTestOrigin)
		assert.Error(t, err)
	})
}

func TestVerifyOrigin(t *testing.T) {
	identity := newTestIdentity(t, testDID)
	service, _ := newTestService(t, identity)
	interceptClient(t, service)
	ctx := context.Background()

	publish := func(t *testing.T, resource *DIDConfigurationResource) {
		t.Helper()
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusOK).
			JSON(resource)
	}

	t.Run("verifies a published origin", func(t *testing.T) {
		publish(t, assembleForOrigin(t, service, identity, fetchTestOrigin))

		response, err := service.VerifyOrigin(ctx, testDID, fetchTestOrigin)
		require.NoError(t, err)
		assert.True(t, response.Verified)
		assert.Empty(t, response.Reason)

		// raw body round-trips back to the resource as served
		var served DIDConfigurationResource
		require.NoError(t, json.Unmarshal([]byte(response.Resource), &served))
		assert.Len(t, served.LinkedDIDs, 1)
	})

	t.Run("did mismatch surfaces as a reason", func(t *testing.T) {
		publish(t, assembleForOrigin(t, service, identity, fetchTestOrigin))

		response, err := service.VerifyOrigin(ctx, "did:example:someoneelse", fetchTestOrigin)
		require.NoError(t, err)
		assert.False(t, response.Verified)
		assert.Contains(t, response.Reason, ErrDIDMismatch.Error())
	})

	t.Run("fetch failure is an error, not a reason", func(t *testing.T) {
		gock.New(fetchTestOrigin).
			Get(DIDConfigurationLocationSuffix).
			Reply(http.StatusNotFound)

		_, err := service.VerifyOrigin(ctx, testDID, fetchTestOrigin)
		assert.Error(t, err)
	})
}
