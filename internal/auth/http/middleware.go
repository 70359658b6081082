// Package http provides HTTP middleware for operator authentication and callback rate limiting.
package http

import (
	"crypto/sha256"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/orchestrator/internal/auth/service"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	"github.com/allisson/orchestrator/internal/httputil"
)

// APIKeyHeader carries the operator API key.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware requires an X-API-Key header matching one of the configured Argon2id hashes.
// With no hashes configured every request is let through.
//
// Keys that verified once are remembered by their SHA-256 digest for the lifetime of the process.
//
// Error handling:
//   - Missing header → 401 Unauthorized
//   - Key matching no hash → 401 Unauthorized
func APIKeyMiddleware(
	keyService authService.APIKeyService,
	hashes []string,
	logger *slog.Logger,
) gin.HandlerFunc {
	if len(hashes) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var verified sync.Map // map[[32]byte]struct{}

	return func(c *gin.Context) {
		plainKey := c.GetHeader(APIKeyHeader)
		if plainKey == "" {
			logger.Debug("authentication failed: missing api key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		digest := sha256.Sum256([]byte(plainKey))
		if _, ok := verified.Load(digest); ok {
			c.Next()
			return
		}

		for _, hash := range hashes {
			if keyService.CompareKey(plainKey, hash) {
				verified.Store(digest, struct{}{})
				c.Next()
				return
			}
		}

		logger.Debug("authentication failed: unknown api key", slog.String("client_ip", c.ClientIP()))
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		c.Abort()
	}
}
