package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CredentialSize is the default entropy for invitation credentials, in bytes
// before encoding. 24 bytes gives 192 bits of entropy and a 48-character
// hex string.
const CredentialSize = 24

// GenerateCredential creates a cryptographically secure random credential of
// the given byte length, encoded as lowercase hexadecimal (2x size chars).
// Returns an error if the random number generator fails.
func GenerateCredential(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("credential size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random credential: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// MustGenerateCredential is like GenerateCredential but panics on error.
// Use this only in contexts where failure is unrecoverable.
func MustGenerateCredential(size int) string {
	credential, err := GenerateCredential(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate credential: %v", err))
	}
	return credential
}

// Fingerprint returns a deterministic SHA-256 fingerprint of a credential as
// a 64-character lowercase hex string. Only the fingerprint is ever stored;
// invitations are looked up by Fingerprint(suppliedCredential), so a leaked
// row cannot be replayed to recover the raw value.
func Fingerprint(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}
