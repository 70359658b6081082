package service

import (
	"crypto/rand"
	"encoding/hex"

	apperrors "github.com/allisson/orchestrator/internal/errors"
)

// tokenBytes is the entropy of a correlation token.
const tokenBytes = 16

type tokenGenerator struct{}

// NewTokenGenerator creates a TokenGenerator producing 32 character hex tokens.
func NewTokenGenerator() TokenGenerator {
	return &tokenGenerator{}
}

// Generate returns a new random token.
func (t *tokenGenerator) Generate() (string, error) {
	randomBytes := make([]byte, tokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate correlation token")
	}
	return hex.EncodeToString(randomBytes), nil
}
