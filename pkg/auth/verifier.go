package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoKeyMaterial is returned when neither a secret nor a public key is set.
var ErrNoKeyMaterial = errors.New("jwt verifier requires PublicKeyPEM or Secret")

// VerifierConfig selects how bearer tokens are checked. Tokens are issued
// elsewhere; this package never signs.
type VerifierConfig struct {
	// PublicKeyPEM enables RS256 and takes precedence over Secret.
	PublicKeyPEM string
	// Secret is the HS256 shared key.
	Secret string

	// Issuer and Audience are enforced when non-empty.
	Issuer   string
	Audience string
	// Leeway tolerates clock skew on exp, nbf and iat.
	Leeway time.Duration
}

// Verifier validates bearer tokens.
type Verifier struct {
	key    any
	parser *jwt.Parser
}

func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	var key any
	switch {
	case cfg.PublicKeyPEM != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RSA public key: %w", err)
		}
		key = pub
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	case cfg.Secret != "":
		key = []byte(cfg.Secret)
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	default:
		return nil, ErrNoKeyMaterial
	}

	return &Verifier{key: key, parser: jwt.NewParser(opts...)}, nil
}

// Verify parses tokenString and returns its claims when the signature and
// registered claims are valid.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}

// UsesRSA reports whether tokens are checked against a public key.
func (v *Verifier) UsesRSA() bool {
	_, ok := v.key.(*rsa.PublicKey)
	return ok
}

// LoadKeyFromFile reads a PEM-encoded key from a file path.
func LoadKeyFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file %q: %w", path, err)
	}
	return data, nil
}
