package settings

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12 // GCM standard nonce size
	saltSize         = 16
	pbkdf2Iterations = 100000

	sealedPrefix = "sealed:v1:"
)

// ErrSealed is returned when a stored key is sealed and no secret is set
var ErrSealed = errors.New("stored API key is encrypted; set SHEETBOARD_SECRET")

// Sealer encrypts the API key at rest
type Sealer struct {
	secret string
}

// NewSealer returns a sealer for secret. An empty secret disables sealing.
func NewSealer(secret string) *Sealer {
	return &Sealer{secret: secret}
}

// Enabled reports whether a secret is configured
func (s *Sealer) Enabled() bool {
	return s != nil && s.secret != ""
}

// IsSealed reports whether value was produced by Seal
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}

// Seal encrypts plaintext with AES-256-GCM under a fresh salt. The result is
// "sealed:v1:<salt>:<nonce+ciphertext>", both base64.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	gcm, err := s.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal appends nonce + ciphertext
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(salt) + ":" +
		base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open reverses Seal. Values that were never sealed pass through.
func (s *Sealer) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if !s.Enabled() {
		return "", ErrSealed
	}

	saltPart, dataPart, ok := strings.Cut(strings.TrimPrefix(value, sealedPrefix), ":")
	if !ok {
		return "", errors.New("malformed sealed value")
	}
	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(dataPart)
	if err != nil {
		return "", err
	}
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	gcm, err := s.aead(salt)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", errors.New("decryption failed: invalid key or corrupted data")
	}
	return string(plaintext), nil
}

func (s *Sealer) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(s.secret), salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
