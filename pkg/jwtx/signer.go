// Package jwtx signs and verifies the JWT-formatted access tokens issued by
// the token endpoint. Only EdDSA (Ed25519) is supported; the signing key is a
// single seed file kept alongside the persisted stores so token signatures
// survive restarts.
package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoKey        = errors.New("jwtx: key not found")
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Signer holds the Ed25519 keypair used to sign and verify access tokens.
type Signer struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner wraps an existing Ed25519 private key.
func NewSigner(key ed25519.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	pub := key.Public().(ed25519.PublicKey)
	return &Signer{
		kid: keyID(pub),
		key: key,
		pub: pub,
	}, nil
}

// LoadOrCreateSigner reads the Ed25519 seed from path, generating and writing
// a fresh one (0600) when the file does not exist yet.
func LoadOrCreateSigner(path string) (*Signer, error) {
	seed, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("jwtx: %s: expected %d-byte seed, got %d", path, ed25519.SeedSize, len(seed))
		}
		return NewSigner(ed25519.NewKeyFromSeed(seed))
	case os.IsNotExist(err):
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("jwtx: generate seed: %w", err)
		}
		if err := os.WriteFile(path, seed, 0o600); err != nil {
			return nil, fmt.Errorf("jwtx: write seed: %w", err)
		}
		return NewSigner(ed25519.NewKeyFromSeed(seed))
	default:
		return nil, fmt.Errorf("jwtx: read seed: %w", err)
	}
}

func (s *Signer) KID() string { return s.kid }
func (s *Signer) Alg() string { return jwt.SigningMethodEdDSA.Alg() }

// Sign turns claims into a signed compact JWT string.
func (s *Signer) Sign(claims AccessClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// Verify parses a compact JWT and checks its signature against this signer's
// public key. Expiry is NOT enforced here; the token store owns validity.
func (s *Signer) Verify(raw string) (AccessClaims, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
				return nil, fmt.Errorf("jwtx: unexpected alg %q", t.Method.Alg())
			}
			if kid, _ := t.Header["kid"].(string); kid != s.kid {
				return nil, ErrNoKey
			}
			return s.pub, nil
		},
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return AccessClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}

// PublicJWK returns the signer's public key in JWK form for JWKS publishing.
func (s *Signer) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, "sig", s.Alg(), s.pub)
}

// keyID derives a stable key identifier from the public key material.
func keyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
