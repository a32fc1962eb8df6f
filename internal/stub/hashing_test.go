package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("admin123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := verifyPassword("admin123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	first, err := hashPassword("admin123")
	require.NoError(t, err)
	second, err := hashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	_, err := verifyPassword("admin123", "not-a-hash")
	assert.Error(t, err)
}

func TestNewTokenIsUnique(t *testing.T) {
	first, err := newToken()
	require.NoError(t, err)
	second, err := newToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.NotEmpty(t, first)
}

func TestNewCodeShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := newCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
