package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/aethertool/internal/auth"
)

func TestHashPasswordFormat(t *testing.T) {
	h, err := auth.HashPassword("admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=19456,t=2,p=1$"), h)

	other, err := auth.HashPassword("admin")
	require.NoError(t, err)
	assert.NotEqual(t, h, other, "salts must differ")
}

func TestVerifyPassword(t *testing.T) {
	h, err := auth.HashPassword("password123")
	require.NoError(t, err)

	ok, err := auth.VerifyPassword(h, "password123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword(h, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordMalformed(t *testing.T) {
	for _, in := range []string{"", "hash", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=x$salt$key"} {
		_, err := auth.VerifyPassword(in, "pw")
		assert.ErrorIs(t, err, auth.ErrMalformedHash, "input %q", in)
	}
}
