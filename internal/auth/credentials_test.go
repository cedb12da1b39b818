package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain(t *testing.T) {
	var scheme Plain

	stored, err := scheme.Hash("secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", stored)

	assert.NoError(t, scheme.Verify(stored, "secret"))
	assert.ErrorIs(t, scheme.Verify(stored, "Secret"), ErrMismatch)
	assert.ErrorIs(t, scheme.Verify(stored, ""), ErrMismatch)
}

func TestBcrypt(t *testing.T) {
	var scheme Bcrypt

	stored, err := scheme.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored)

	assert.NoError(t, scheme.Verify(stored, "secret"))
	assert.ErrorIs(t, scheme.Verify(stored, "wrong"), ErrMismatch)
}
