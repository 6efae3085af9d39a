package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestJWTValidator_Validate(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "keepsake-backend"})
	require.NoError(t, err)

	t.Run("accepts a valid token", func(t *testing.T) {
		token := signToken(t, "secret", jwt.RegisteredClaims{
			Issuer:    "keepsake-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		claims, err := validator.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "keepsake-backend", claims.Issuer)
	})

	t.Run("rejects a wrong signature", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.RegisteredClaims{
			Issuer:    "keepsake-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := signToken(t, "secret", jwt.RegisteredClaims{
			Issuer:    "keepsake-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		_, err := validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("rejects a wrong issuer", func(t *testing.T) {
		token := signToken(t, "secret", jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := validator.Validate(token)
		assert.Error(t, err)
	})
}
