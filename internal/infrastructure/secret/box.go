// Package secret encrypts small values, such as upstream API keys, before
// they are written to the database.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the required key length in bytes
	KeySize   = 32
	nonceSize = 24
)

// ErrDecrypt is returned when a ciphertext was not produced by this key
var ErrDecrypt = errors.New("secret: unable to decrypt value")

// Box seals values with NaCl secretbox (XSalsa20-Poly1305)
type Box struct {
	key [KeySize]byte
}

// NewBox creates a Box from a 32-byte key
func NewBox(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("secret: key must be %d bytes, got %d", KeySize, len(key))
	}
	b := &Box{}
	copy(b.key[:], key)
	return b, nil
}

// NewEphemeralBox creates a Box with a random key. Values it seals cannot be
// opened after the process exits.
func NewEphemeralBox() (*Box, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("secret: generate key: %w", err)
	}
	return NewBox(key)
}

// Encrypt seals plaintext and returns base64(nonce || box)
func (b *Box) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secret: generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &b.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt
func (b *Box) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	opened, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(opened), nil
}
