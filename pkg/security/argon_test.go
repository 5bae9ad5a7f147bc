package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	a := New()

	hash, err := a.GenerateFromPassword("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "pw123456")

	ok, err := a.VerifyPasswd("pw123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("pw123457", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	a := New()

	h1, err := a.GenerateFromPassword("pw123456")
	require.NoError(t, err)
	h2, err := a.GenerateFromPassword("pw123456")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyBadFormat(t *testing.T) {
	a := New()

	_, err := a.VerifyPasswd("pw123456", "not-a-hash")
	assert.Error(t, err)
}
