package did

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func TestDocumentLocation(t *testing.T) {
	tests := []struct {
		did      string
		location string
	}{
		{"did:web:example.com", "https://example.com/.well-known/did.json"},
		{"did:web:example.com:user:alice", "https://example.com/user/alice/did.json"},
		{"did:web:example.com%3A3000", "https://example.com:3000/.well-known/did.json"},
		{"did:web:example.com%3A3000:user:alice", "https://example.com:3000/user/alice/did.json"},
	}
	for _, test := range tests {
		t.Run(test.did, func(t *testing.T) {
			location, err := documentLocation(test.did)
			require.NoError(t, err)
			assert.Equal(t, test.location, location)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		for _, didStr := range []string{"did:web:", "did:key:z6Mk", "example.com"} {
			_, err := documentLocation(didStr)
			assert.Error(t, err, didStr)
		}
	})
}

func TestWebResolver(t *testing.T) {
	newGockedResolver := func(t *testing.T) *WebResolver {
		t.Helper()
		resolver := &WebResolver{Client: &http.Client{}}
		gock.InterceptClient(resolver.Client)
		t.Cleanup(gock.Off)
		return resolver
	}
	ctx := context.Background()

	t.Run("resolves a bare domain", func(t *testing.T) {
		resolver := newGockedResolver(t)
		gock.New("https://example.com").
			Get("/.well-known/did.json").
			Reply(http.StatusOK).
			JSON(Document{ID: "did:web:example.com"})

		resolved, err := resolver.Resolve(ctx, "did:web:example.com")
		require.NoError(t, err)
		require.False(t, resolved.Document.IsEmpty())
		assert.Equal(t, "did:web:example.com", resolved.Document.ID)
	})

	t.Run("not found resolves to an empty result", func(t *testing.T) {
		resolver := newGockedResolver(t)
		gock.New("https://example.com").
			Get("/.well-known/did.json").
			Reply(http.StatusNotFound)

		resolved, err := resolver.Resolve(ctx, "did:web:example.com")
		require.NoError(t, err)
		assert.True(t, resolved.Document.IsEmpty())
	})

	t.Run("server error", func(t *testing.T) {
		resolver := newGockedResolver(t)
		gock.New("https://example.com").
			Get("/.well-known/did.json").
			Reply(http.StatusInternalServerError)

		_, err := resolver.Resolve(ctx, "did:web:example.com")
		assert.Error(t, err)
	})

	t.Run("document id mismatch", func(t *testing.T) {
		resolver := newGockedResolver(t)
		gock.New("https://example.com").
			Get("/.well-known/did.json").
			Reply(http.StatusOK).
			JSON(Document{ID: "did:web:other.example.com"})

		_, err := resolver.Resolve(ctx, "did:web:example.com")
		assert.Error(t, err)
	})

	t.Run("rejects non did:web", func(t *testing.T) {
		resolver := newGockedResolver(t)
		_, err := resolver.Resolve(ctx, "did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK")
		assert.Error(t, err)
	})
}
