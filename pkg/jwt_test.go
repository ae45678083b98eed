package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "admin@example.com", "admin", testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "admin@example.com", "admin", testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	require.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(42, "admin@example.com", "admin", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	require.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", testSecret)
	require.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, testSecret, 30)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}
