// Package vault encrypts linked-panel credentials for at-rest storage.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize = 32 // AES-256

	// encPrefix marks encrypted values in the database. A stored value
	// without it was never produced by this cipher and is rejected.
	encPrefix = "enc:v1:"

	// keyDerivationInfo binds derived keys to this purpose so the same
	// process secret can never yield the credential key for another use.
	keyDerivationInfo = "pterobot/credential-vault/v1"
)

// DecryptionError indicates a stored credential could not be decrypted:
// the ciphertext is malformed or was produced under a different secret.
// The credential is unrecoverable; the owner must re-link their panel.
type DecryptionError struct {
	Reason string
}

func (e DecryptionError) Error() string {
	return fmt.Sprintf("vault: cannot decrypt stored credential: %s", e.Reason)
}

// IsDecryptionError returns true when err is (or wraps) a DecryptionError.
func IsDecryptionError(err error) bool {
	var target DecryptionError
	return errors.As(err, &target)
}

// Cipher performs authenticated encryption of credential strings. It is
// constructed once at startup from the process secret and is safe for
// concurrent use; it holds no mutable state after construction.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a 32-byte AES-256 key from the long-lived process secret via
// HKDF-SHA256 and prepares the GCM cipher. There is no key rotation: if the
// secret changes, previously stored credentials become undecryptable.
func New(secret string) (*Cipher, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("vault: secret is required")
	}

	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyDerivationInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: init gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random nonce and
// returns a prefixed base64 string. Encrypting the same plaintext twice
// yields different ciphertexts.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault: generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return encPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Any failure is reported as a
// DecryptionError; callers must treat it as fatal for that credential.
func (c *Cipher) Decrypt(stored string) (string, error) {
	if !strings.HasPrefix(stored, encPrefix) {
		return "", DecryptionError{Reason: fmt.Sprintf("missing %s prefix", encPrefix)}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, encPrefix))
	if err != nil {
		return "", DecryptionError{Reason: "invalid base64 payload"}
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", DecryptionError{Reason: "ciphertext too short"}
	}

	plaintext, err := c.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", DecryptionError{Reason: "authentication failed (wrong key or corrupted value)"}
	}
	return string(plaintext), nil
}
