package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
)

// PasswordConfig holds the parameters for the Argon2id password hashing algorithm
type PasswordConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// ConfigFromAppConfig creates a password config from the application config
func ConfigFromAppConfig(cfg *config.AppConfig) *PasswordConfig {
	return &PasswordConfig{
		Memory:      cfg.PasswordHash.Memory,
		Iterations:  cfg.PasswordHash.Iterations,
		Parallelism: cfg.PasswordHash.Parallelism,
		SaltLength:  cfg.PasswordHash.SaltLength,
		KeyLength:   cfg.PasswordHash.KeyLength,
	}
}

// PasswordHasher hashes and verifies passwords with Argon2id and a per-user salt.
type PasswordHasher struct {
	cfg       *PasswordConfig
	dummyHash string
	dummySalt string
}

// NewPasswordHasher creates a PasswordHasher. It precomputes a hash used to
// keep the cost of a lookup miss equal to a wrong password.
func NewPasswordHasher(cfg *PasswordConfig) (*PasswordHasher, error) {
	h := &PasswordHasher{cfg: cfg}
	hash, salt, err := h.Hash("shopfront-timing-equalizer")
	if err != nil {
		return nil, err
	}
	h.dummyHash, h.dummySalt = hash, salt
	return h, nil
}

// Hash returns the base64 encoded hash and salt of password.
func (h *PasswordHasher) Hash(password string) (string, string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := h.derive(password, salt)

	return base64.StdEncoding.EncodeToString(hash), base64.StdEncoding.EncodeToString(salt), nil
}

// Verify compares password with a stored hash and salt in constant time.
func (h *PasswordHasher) Verify(password, encodedHash, encodedSalt string) (bool, error) {
	hash, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(encodedSalt)
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	return subtle.ConstantTimeCompare(hash, h.derive(password, salt)) == 1, nil
}

// VerifyDummy runs a full verification against a throwaway hash and always fails.
func (h *PasswordHasher) VerifyDummy(password string) {
	_, _ = h.Verify(password, h.dummyHash, h.dummySalt)
}

func (h *PasswordHasher) derive(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		h.cfg.Iterations,
		h.cfg.Memory,
		h.cfg.Parallelism,
		h.cfg.KeyLength,
	)
}
