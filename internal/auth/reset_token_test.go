package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	token, hash, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, hash)
	assert.Equal(t, hash, HashResetToken(token))

	// 32 bytes of entropy, base64url without padding.
	assert.GreaterOrEqual(t, len(token), 43)
	assert.NotContains(t, token, "=")
}

func TestGenerateResetTokenUnique(t *testing.T) {
	a, _, err := GenerateResetToken()
	require.NoError(t, err)
	b, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashResetTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
	// sha256 hex
	assert.Len(t, HashResetToken("abc"), 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("senha123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "senha123", hash)

	require.NoError(t, ComparePassword(hash, "senha123"))
	require.Error(t, ComparePassword(hash, "errada"))
}
