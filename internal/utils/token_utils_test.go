package utils_test

import (
	"testing"
	"time"

	"github.com/finman-app/finman_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, expiresAt, err := utils.GenerateJWT("user-1", "test-secret", time.Hour, "finman-backend")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "finman-backend", claims.Issuer)
}

func TestParseAndValidateJWTWrongSecret(t *testing.T) {
	token, _, err := utils.GenerateJWT("user-1", "test-secret", time.Hour, "finman-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseAndValidateJWTExpired(t *testing.T) {
	token, _, err := utils.GenerateJWT("user-1", "test-secret", -time.Minute, "finman-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestParseAndValidateJWTGarbage(t *testing.T) {
	_, err := utils.ParseAndValidateJWT("not-a-token", "test-secret")
	assert.Error(t, err)
}
