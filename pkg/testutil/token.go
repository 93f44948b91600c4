package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TokenOptions shapes a test bearer token. Zero values give a token valid
// for one minute with no issuer or audience.
type TokenOptions struct {
	Subject  string
	Issuer   string
	Audience string
	Roles    []string
	TTL      time.Duration
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

func (o TokenOptions) claims() tokenClaims {
	ttl := o.TTL
	if ttl == 0 {
		ttl = time.Minute
	}
	now := time.Now()
	c := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    o.Issuer,
			Subject:   o.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Roles: o.Roles,
	}
	if o.Audience != "" {
		c.Audience = jwt.ClaimStrings{o.Audience}
	}
	return c
}

// SignHS256 issues a token the way an upstream identity provider would.
func SignHS256(t testing.TB, secret string, opts TokenOptions) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, opts.claims()).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// SignRS256 signs with key.
func SignRS256(t testing.TB, key *rsa.PrivateKey, opts TokenOptions) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, opts.claims()).SignedString(key)
	require.NoError(t, err)
	return token
}

// RSAKey generates a 2048-bit key and returns it with its PEM public half.
func RSAKey(t testing.TB) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}
