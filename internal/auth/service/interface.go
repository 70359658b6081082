// Package service provides operator API key generation and verification.
package service

// APIKeyService defines operations for operator API keys.
type APIKeyService interface {
	// GenerateKey creates a new random API key. The plain key is shown once to the operator;
	// only the hash goes into API_KEY_HASHES.
	GenerateKey() (plainKey string, hashedKey string, err error)

	// HashKey hashes a plain API key using Argon2id.
	HashKey(plainKey string) (hashedKey string, err error)

	// CompareKey reports whether plainKey matches hashedKey.
	CompareKey(plainKey string, hashedKey string) bool
}
