package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		Email: "staff@undergraduation.com",
		Name:  "Staff Member",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "undergraduation.com",
			Audience:  jwt.ClaimStrings{"ugadmin-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
}

func TestJWTService_ValidateAndExtractClaims(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:   "secret",
		TokenIssuer: "undergraduation.com",
		Audience:    "ugadmin-api",
	})

	t.Run("valid token", func(t *testing.T) {
		token := signTestToken(t, "secret", validClaims())

		claims, err := svc.ValidateAndExtractClaims(token)

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "staff@undergraduation.com", claims.Email)
		assert.Equal(t, "Staff Member", claims.Name)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signTestToken(t, "other-secret", validClaims())

		_, err := svc.ValidateAndExtractClaims(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		token := signTestToken(t, "secret", claims)

		_, err := svc.ValidateAndExtractClaims(token)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "somewhere-else.example.com"
		token := signTestToken(t, "secret", claims)

		_, err := svc.ValidateAndExtractClaims(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"another-api"}
		token := signTestToken(t, "secret", claims)

		_, err := svc.ValidateAndExtractClaims(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""
		token := signTestToken(t, "secret", claims)

		_, err := svc.ValidateAndExtractClaims(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ValidateAndExtractClaims("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	t.Run("bearer prefix is stripped", func(t *testing.T) {
		token, err := ExtractBearerToken("Bearer abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("bare token is accepted", func(t *testing.T) {
		token, err := ExtractBearerToken("abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("empty header", func(t *testing.T) {
		_, err := ExtractBearerToken("")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}
