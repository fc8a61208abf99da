package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{
		SecretKey:  "test-secret",
		Issuer:     "hivemind-test",
		ExpiryTime: time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig())
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("users/u1", "alice")
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "users/u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig())
	require.NoError(t, err)

	otherConfig := testConfig()
	otherConfig.SecretKey = "different-secret"
	validator, err := NewJWTValidator(otherConfig)
	require.NoError(t, err)

	token, err := generator.GenerateToken("users/u1", "alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	config := testConfig()
	config.ExpiryTime = -time.Hour
	generator := &JWTGenerator{config: config}
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("users/u1", "alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	config := testConfig()
	config.Issuer = "someone-else"
	generator, err := NewJWTGenerator(config)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("users/u1", "alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	_, err = validator.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGeneratorRequiresSecret(t *testing.T) {
	_, err := NewJWTGenerator(JWTConfig{})
	assert.Error(t, err)
}
