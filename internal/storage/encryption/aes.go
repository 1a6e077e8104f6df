// Package encryption seals request and response bodies at rest with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"runtime"
)

// Encryptor encrypts and decrypts stored log content
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AES implements AES-256-GCM encryption
type AES struct {
	key []byte
}

// KeyEnv names the environment variable holding the content key.
const KeyEnv = "LOGVIEW_ENCRYPTION_KEY"

// New creates an AES encryptor keyed from LOGVIEW_ENCRYPTION_KEY, or from
// machine identifiers when the variable is unset.
func New() (*AES, error) {
	return NewFromPassphrase(os.Getenv(KeyEnv))
}

// NewFromPassphrase derives the key from passphrase with SHA-256. An empty
// passphrase falls back to the machine-derived key.
func NewFromPassphrase(passphrase string) (*AES, error) {
	if passphrase == "" {
		passphrase = deriveMachineKey()
	}
	hash := sha256.Sum256([]byte(passphrase))
	return &AES{key: hash[:]}, nil
}

// NewWithKey creates an encryptor with a raw 32-byte key
func NewWithKey(key []byte) (*AES, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be 32 bytes for AES-256")
	}
	return &AES{key: key}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM
func (e *AES) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts ciphertext using AES-256-GCM
func (e *AES) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertextBytes := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertextBytes, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// deriveMachineKey creates a machine-specific key from available identifiers
func deriveMachineKey() string {
	material := "logview-content-key"

	if hostname, err := os.Hostname(); err == nil {
		material += hostname
	}

	if home, err := os.UserHomeDir(); err == nil {
		material += home
	}

	material += runtime.GOOS + runtime.GOARCH

	return material
}
