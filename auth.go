package sharebox

import (
	"crypto/subtle"
	"fmt"
)

// TokenVerifier checks upload tokens against the single shared secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier returns a verifier for secret. An empty secret is
// rejected so a misconfigured server cannot accept anonymous uploads.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("new token verifier: %w: secret cannot be empty", ErrInvalidInput)
	}
	return &TokenVerifier{secret: []byte(secret)}, nil
}

// Verify returns ErrUnauthorized unless token equals the secret.
// The comparison runs in constant time with respect to the token content.
func (v *TokenVerifier) Verify(token string) error {
	if v == nil || subtle.ConstantTimeCompare([]byte(token), v.secret) != 1 {
		return ErrUnauthorized
	}
	return nil
}
