package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dpereira/go-product-api/config"
)

var (
	// ErrTokenInvalid covers bad signatures, malformed tokens, wrong signing
	// algorithms and missing subject claims.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired means the signature checked out but exp is in the past.
	ErrTokenExpired = errors.New("token has expired")
)

// TokenCodec issues and validates HS256-signed bearer tokens carrying a
// subject identity. Tokens are self-contained; expiry is the only
// deactivation mechanism, there is no revocation list.
type TokenCodec struct {
	secretKey []byte
	issuer    string
}

func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	if cfg.SecretKey == "" {
		panic("JWT secret key cannot be empty")
	}
	return &TokenCodec{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
	}
}

// Issue encodes {sub, exp, iss, iat}, signs with the server secret and
// returns the serialized token.
func (c *TokenCodec) Issue(subjectID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature validity and expiry and returns the subject claim.
// The subject is not resolved against the user store here; that is the
// authorization guard's job.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
