package store

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrSealBroken indicates a sealed value failed authentication
var ErrSealBroken = errors.New("sealed value is corrupt or was sealed with another secret")

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
)

// Sealer encrypts short secrets at rest with a key derived from a passphrase
type Sealer struct {
	secret []byte
}

// NewSealer creates a Sealer for the given passphrase
func NewSealer(secret string) *Sealer {
	return &Sealer{secret: []byte(secret)}
}

// Seal returns base64(salt || nonce || box)
func (s *Sealer) Seal(plaintext string) (string, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	salt := buf[:saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])

	key := s.key(salt)
	out := secretbox.Seal(buf, []byte(plaintext), &nonce, &key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealBroken, err)
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return "", ErrSealBroken
	}

	salt := raw[:saltSize]
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])

	key := s.key(salt)
	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, &key)
	if !ok {
		return "", ErrSealBroken
	}
	return string(plain), nil
}

func (s *Sealer) key(salt []byte) [keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey(s.secret, salt, argonTime, argonMemory, argonThreads, keySize))
	return key
}
