package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/orchestrator/internal/auth/service/mocks"
)

func newAPIKeyRouter(t *testing.T, keyService *mocks.MockAPIKeyService, hashes []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.Use(APIKeyMiddleware(keyService, hashes, logger))
	router.GET("/v1/queues", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func doRequest(router *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/queues", nil)
	if key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Run("Success_OpenWithoutHashes", func(t *testing.T) {
		keyService := &mocks.MockAPIKeyService{}
		router := newAPIKeyRouter(t, keyService, nil)

		w := doRequest(router, "")

		assert.Equal(t, http.StatusOK, w.Code)
		keyService.AssertNotCalled(t, "CompareKey", "", "")
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		keyService := &mocks.MockAPIKeyService{}
		router := newAPIKeyRouter(t, keyService, []string{"hash-a"})

		w := doRequest(router, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		keyService := &mocks.MockAPIKeyService{}
		keyService.On("CompareKey", "bad", "hash-a").Return(false).Once()
		keyService.On("CompareKey", "bad", "hash-b").Return(false).Once()
		router := newAPIKeyRouter(t, keyService, []string{"hash-a", "hash-b"})

		w := doRequest(router, "bad")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		keyService.AssertExpectations(t)
	})

	t.Run("Success_SecondHashMatchesAndIsRemembered", func(t *testing.T) {
		keyService := &mocks.MockAPIKeyService{}
		keyService.On("CompareKey", "good", "hash-a").Return(false).Once()
		keyService.On("CompareKey", "good", "hash-b").Return(true).Once()
		router := newAPIKeyRouter(t, keyService, []string{"hash-a", "hash-b"})

		assert.Equal(t, http.StatusOK, doRequest(router, "good").Code)
		assert.Equal(t, http.StatusOK, doRequest(router, "good").Code)

		keyService.AssertNumberOfCalls(t, "CompareKey", 2)
	})
}
