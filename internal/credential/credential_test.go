package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainLinkageClaim(t *testing.T) {
	claim, err := NewDomainLinkageClaim("https://example.com", "did:example:abcd")
	require.NoError(t, err)
	assert.Equal(t, DomainLinkageCType, claim.CTypeHash)
	assert.Equal(t, "did:example:abcd", claim.Owner)

	origin, ok := claim.GetOrigin()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", origin)

	_, err = NewDomainLinkageClaim("", "did:example:abcd")
	assert.Error(t, err)
	_, err = NewDomainLinkageClaim("https://example.com", "")
	assert.Error(t, err)
}

func TestNewCredential(t *testing.T) {
	claim, err := NewDomainLinkageClaim("https://example.com", "did:example:abcd")
	require.NoError(t, err)

	cred, err := New(*claim)
	require.NoError(t, err)

	// one statement per contents field plus owner and ctype hash
	assert.Len(t, cred.ClaimHashes, 3)
	assert.Len(t, cred.ClaimNonceMap, 3)
	assert.NotEmpty(t, cred.RootHash)
	assert.Nil(t, cred.DelegationID)
	assert.Empty(t, cred.Legitimations)

	payload, err := cred.SignablePayload()
	require.NoError(t, err)
	assert.Len(t, payload, 32)
	assert.Equal(t, BytesToHex(payload), cred.RootHash)

	t.Run("fresh nonces produce a fresh root hash", func(t *testing.T) {
		other, err := New(*claim)
		require.NoError(t, err)
		assert.NotEqual(t, cred.RootHash, other.RootHash)
	})
}

func TestHexRoundTrip(t *testing.T) {
	hexed := BytesToHex([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Equal(t, "0xdeadbeef", hexed)

	decoded, err := HexToBytes(hexed)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded)

	_, err = HexToBytes("deadbeef")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing 0x prefix")

	_, err = HexToBytes("0xnothex")
	assert.Error(t, err)
}
