package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw12345")
	require.NoError(t, err)
	assert.NotEqual(t, "pw12345", h)

	assert.True(t, CheckPassword(h, "pw12345"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "pw12345"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("pw12345")
	require.NoError(t, err)
	b, err := HashPassword("pw12345")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
