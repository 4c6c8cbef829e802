package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", "secret")
	assert.Error(t, err)
}
