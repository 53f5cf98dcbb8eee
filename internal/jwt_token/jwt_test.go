package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "condogov/pkg/domain-errors"
)

const testSigningKey = "test-signing-key-still-needs-32-bytes"

func signToken(t *testing.T, key string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := NewJWTService(testSigningKey)
	stakeholderID := uuid.NewString()

	t.Run("valid token round-trips claims", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, Claims{
			StakeholderID: stakeholderID,
			Role:          "aprovador",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := svc.ValidateToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, stakeholderID, claims.StakeholderID)
		assert.Equal(t, "aprovador", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, Claims{
			StakeholderID: stakeholderID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		})

		_, err := svc.ValidateToken(tokenString)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		tokenString := signToken(t, "a-completely-different-signing-key!!", Claims{
			StakeholderID: stakeholderID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := svc.ValidateToken(tokenString)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		// alg=none tokens must never validate.
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{StakeholderID: stakeholderID})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(tokenString)
		require.Error(t, err)
	})
}

func TestJWTServiceAdapter(t *testing.T) {
	svc := NewJWTService(testSigningKey)
	adapter := NewJWTServiceAdapter(svc)
	stakeholderID := uuid.NewString()

	tokenString := signToken(t, testSigningKey, Claims{
		StakeholderID: stakeholderID,
		Role:          "editor",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := adapter.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, stakeholderID, claims.StakeholderID)
	assert.Equal(t, "editor", claims.Role)
}
