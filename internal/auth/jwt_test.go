package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	token, err := GenerateToken("secret", 42, "user@example.com", false, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 42, "user@example.com", true, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", 42, "user@example.com", false, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}
