package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira/go-product-api/config"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec(config.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "test-issuer",
	})
}

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Issue("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestTokenCodec_Verify(t *testing.T) {
	codec := newTestCodec()

	t.Run("Expired", func(t *testing.T) {
		token, err := codec.Issue("user-123", -time.Second)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("TamperedSignature", func(t *testing.T) {
		token, err := codec.Issue("user-123", time.Hour)
		require.NoError(t, err)

		// Flip a byte in the signature section.
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err = codec.Verify(tampered)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenCodec(config.JWTConfig{SecretKey: "other-secret"})
		token, err := other.Issue("user-123", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := codec.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)

		_, err = codec.Verify("")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		// "none" algorithm must never be accepted.
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
