package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/orchestrator/internal/errors"
)

// apiKeySize is the number of random bytes in a generated key.
const apiKeySize = 32

// apiKeyService implements APIKeyService using Argon2id hashing.
type apiKeyService struct {
	hasher *pwdhash.PasswordHasher
}

// NewAPIKeyService creates a new APIKeyService using the Moderate Argon2id policy.
func NewAPIKeyService() APIKeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		panic(err)
	}

	return &apiKeyService{
		hasher: hasher,
	}
}

// GenerateKey creates a URL-safe base64 key from 32 random bytes.
func (s *apiKeyService) GenerateKey() (string, string, error) {
	randomBytes := make([]byte, apiKeySize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api key")
	}

	plainKey := base64.URLEncoding.EncodeToString(randomBytes)

	hashedKey, err := s.HashKey(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, hashedKey, nil
}

func (s *apiKeyService) HashKey(plainKey string) (string, error) {
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash api key")
	}
	return hashedKey, nil
}

// CompareKey returns false for malformed hashes.
func (s *apiKeyService) CompareKey(plainKey string, hashedKey string) bool {
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}
