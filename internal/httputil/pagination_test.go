package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/orchestrator/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		url        string
		wantOffset int
		wantLimit  int
		wantErrOn  string
	}{
		{name: "Defaults", url: "/v1/queues/q1/items/pending", wantOffset: 0, wantLimit: httputil.DefaultPageLimit},
		{name: "Custom", url: "/v1/queues/q1/items/pending?offset=10&limit=20", wantOffset: 10, wantLimit: 20},
		{name: "MaxLimit", url: "/v1/queues/q1/items/pending?limit=100", wantOffset: 0, wantLimit: 100},
		{name: "NegativeOffset", url: "/v1/queues/q1/items/pending?offset=-1", wantErrOn: "offset"},
		{name: "OffsetNotInteger", url: "/v1/queues/q1/items/pending?offset=abc", wantErrOn: "offset"},
		{name: "ZeroLimit", url: "/v1/queues/q1/items/pending?limit=0", wantErrOn: "limit"},
		{name: "LimitAboveMax", url: "/v1/queues/q1/items/pending?limit=101", wantErrOn: "limit"},
		{name: "LimitNotInteger", url: "/v1/queues/q1/items/pending?limit=xyz", wantErrOn: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			offset, limit, err := httputil.ParsePagination(c)

			if tt.wantErrOn != "" {
				assert.ErrorContains(t, err, tt.wantErrOn)
				assert.Zero(t, offset)
				assert.Zero(t, limit)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPage_Validate(t *testing.T) {
	assert.NoError(t, httputil.Page{Offset: 0, Limit: 1}.Validate())
	assert.Error(t, httputil.Page{Offset: 0, Limit: httputil.MaxPageLimit + 1}.Validate())
	assert.Error(t, httputil.Page{Offset: -5, Limit: 10}.Validate())
}
