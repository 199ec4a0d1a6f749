package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenAccessToken("secret", "operator", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.User)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, err := GenAccessToken("secret", "operator", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", token)
	assert.Error(t, err)
}

func TestAccessToken_Expired(t *testing.T) {
	token, err := GenAccessToken("secret", "operator", -time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", token)
	assert.Error(t, err)
}
