package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const stateRandomBytes = 32

// NewState returns an unguessable OAuth state value.
func NewState() (string, error) {
	return randomString(stateRandomBytes)
}

// NewPKCE returns an S256 code verifier and its challenge.
func NewPKCE() (verifier, challenge string, err error) {
	verifier, err = randomString(stateRandomBytes)
	if err != nil {
		return "", "", err
	}
	sum := sha256.Sum256([]byte(verifier))
	return verifier, base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
