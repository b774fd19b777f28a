package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_DefaultsToBcrypt(t *testing.T) {
	h, err := NewHasher("", 0)
	require.NoError(t, err)

	bh, ok := h.(*BcryptHasher)
	require.True(t, ok)
	assert.Equal(t, bcrypt.DefaultCost, bh.cost)
}

func TestNewHasher_RejectsUnknownScheme(t *testing.T) {
	_, err := NewHasher("md5", 0)
	assert.Error(t, err)
}

func TestNewHasher_RejectsBadCost(t *testing.T) {
	_, err := NewHasher(SchemeBcrypt, 99)
	assert.Error(t, err)
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h, err := NewHasher(SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Compare(hash, "s3cret"))
	assert.False(t, h.Compare(hash, "S3cret"))
	assert.False(t, h.Compare("not-a-hash", "s3cret"))
}

func TestPlainHasher(t *testing.T) {
	h, err := NewHasher("PLAIN", 0)
	require.NoError(t, err)

	stored, err := h.Hash("pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", stored)
	assert.True(t, h.Compare(stored, "pw"))
	assert.False(t, h.Compare(stored, "pw "))
}
