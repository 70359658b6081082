package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
	"github.com/allisson/orchestrator/internal/queue/usecase/mocks"
)

// verifyNoLeaks checks for leaked goroutines after every other cleanup, including the
// gateway shutdown registered by newTestGateway, has run.
func verifyNoLeaks(t *testing.T) {
	t.Helper()
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })
}

type testGateway struct {
	gateway *Gateway
	useCase *mocks.MockQueueUseCase
	server  *httptest.Server
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	useCase := &mocks.MockQueueUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGateway(useCase, NewRegistry(), Config{
		PingInterval:    time.Second,
		ReadTimeout:     5 * time.Second,
		MaxMessageBytes: 4096,
	}, nil, logger)

	router := gin.New()
	g.RegisterRoutes(router.Group("/v1"))
	server := httptest.NewServer(router)

	tg := &testGateway{gateway: g, useCase: useCase, server: server}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, g.Shutdown(ctx))
		server.Close()
	})
	return tg
}

func (tg *testGateway) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(tg.server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetWriteDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var reply map[string]any
	require.NoError(t, json.Unmarshal(data, &reply))
	return reply
}

func runningItem(workerID string) *queueDomain.QueueItem {
	now := time.Now().UTC()
	item := queueDomain.NewQueueItem(uuid.New(), 1, map[string]any{"x": 1}, 0, 3, now)
	item.MarkRunning(workerID, now)
	return item
}

func TestGateway_GetNext(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	item := runningItem("w1")
	tg.useCase.On("LeaseNext", mock.Anything, "q1", "w1").Return(item, nil).Once()
	tg.useCase.On("LeaseNext", mock.Anything, "q1", "w1").Return(nil, nil).Once()

	conn := tg.dial(t, "/v1/ws/worker/q1?worker_id=w1")
	defer conn.Close() //nolint:errcheck

	reply := roundTrip(t, conn, `{"action":"get_next","worker_id":"w1"}`)
	leased, ok := reply["item"].(map[string]any)
	require.True(t, ok, "expected item in reply: %v", reply)
	assert.Equal(t, item.ID.String(), leased["id"])
	assert.Equal(t, "RUNNING", leased["status"])
	assert.Equal(t, "w1", leased["locked_by"])

	reply = roundTrip(t, conn, `{"action":"get_next"}`)
	assert.Equal(t, "No items available", reply["message"])

	assert.Eventually(t, func() bool { return tg.gateway.Registry().Connected("w1") }, time.Second, 10*time.Millisecond)
	tg.useCase.AssertExpectations(t)
}

func TestGateway_MarkOutcomes(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	item := runningItem("w1")
	tg.useCase.On("RecordSuccess", mock.Anything, item.ID).Return(item, nil).Once()
	tg.useCase.On("RecordFailure", mock.Anything, item.ID, "", queueDomain.FailureTechnical).Return(item, nil).Once()
	tg.useCase.On("RecordFailure", mock.Anything, item.ID, "bad doc", queueDomain.FailureBusiness).Return(item, nil).Once()

	conn := tg.dial(t, "/v1/ws/worker/q1")
	defer conn.Close() //nolint:errcheck

	reply := roundTrip(t, conn, `{"action":"mark_success","worker_id":"w1","data":{"item_id":"`+item.ID.String()+`"}}`)
	assert.Equal(t, "Item marked as success", reply["status"])
	assert.Equal(t, item.ID.String(), reply["item_id"])

	reply = roundTrip(t, conn, `{"action":"mark_fail","data":{"item":{"id":"`+item.ID.String()+`"}}}`)
	assert.Equal(t, "Item marked as fail", reply["status"])

	reply = roundTrip(t, conn,
		`{"action":"mark_fail","data":{"item_id":"`+item.ID.String()+`","error":"bad doc","exception_type":"BusinessException"}}`)
	assert.Equal(t, "Item marked as fail", reply["status"])

	tg.useCase.AssertExpectations(t)
}

func TestGateway_ErrorsKeepSessionAlive(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	missing := uuid.New()
	tg.useCase.On("LeaseNext", mock.Anything, "q1", "w1").Return(nil, queueDomain.ErrQueuePaused).Once()
	tg.useCase.On("RecordSuccess", mock.Anything, missing).Return(nil, queueDomain.ErrItemNotFound).Once()
	tg.useCase.On("RecordSuccess", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
	tg.useCase.On("LeaseNext", mock.Anything, "q1", "w1").Return(nil, nil).Once()

	conn := tg.dial(t, "/v1/ws/worker/q1?worker_id=w1")
	defer conn.Close() //nolint:errcheck

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "MalformedJSON", message: `not json`, want: "invalid message"},
		{name: "UnknownAction", message: `{"action":"dance"}`, want: "invalid action 'dance'"},
		{name: "MissingItemID", message: `{"action":"mark_success","data":{}}`, want: "data.item_id is required"},
		{name: "InvalidItemID", message: `{"action":"mark_fail","data":{"item_id":"x"}}`, want: "must be a valid UUID"},
		{name: "InvalidData", message: `{"action":"mark_fail","data":"oops"}`, want: "data must be an object"},
		{name: "Paused", message: `{"action":"get_next"}`, want: "queue is paused"},
		{name: "NotFound", message: `{"action":"mark_success","data":{"item_id":"` + missing.String() + `"}}`, want: "not found"},
		{
			name:    "InternalMasked",
			message: `{"action":"mark_success","data":{"item_id":"` + uuid.New().String() + `"}}`,
			want:    "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := roundTrip(t, conn, tt.message)
			errMsg, ok := reply["error"].(string)
			require.True(t, ok, "expected error reply: %v", reply)
			assert.Contains(t, errMsg, tt.want)
		})
	}

	reply := roundTrip(t, conn, `{"action":"get_next"}`)
	assert.Equal(t, "No items available", reply["message"])
}

func TestGateway_WorkerIDRequired(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	conn := tg.dial(t, "/v1/ws/worker/q1")
	defer conn.Close() //nolint:errcheck

	reply := roundTrip(t, conn, `{"action":"get_next"}`)
	assert.Contains(t, reply["error"], "worker_id is required")
	tg.useCase.AssertNotCalled(t, "LeaseNext", mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_DisconnectUnregisters(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	conn := tg.dial(t, "/v1/ws/worker/q1?worker_id=w1")

	registry := tg.gateway.Registry()
	require.Eventually(t, func() bool { return registry.Connected("w1") }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !registry.Connected("w1") }, 2*time.Second, 10*time.Millisecond)
}

func TestGateway_ForcedDisconnect(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	conn := tg.dial(t, "/v1/ws/worker/q1?worker_id=w1")
	defer conn.Close() //nolint:errcheck

	registry := tg.gateway.Registry()
	require.Eventually(t, func() bool { return registry.Connected("w1") }, time.Second, 10*time.Millisecond)
	require.True(t, registry.Disconnect("w1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestGateway_ShutdownClosesAnonymousSessions(t *testing.T) {
	verifyNoLeaks(t)

	tg := newTestGateway(t)
	conn := tg.dial(t, "/v1/ws/worker/q1")
	defer conn.Close() //nolint:errcheck

	require.Eventually(t, func() bool {
		tg.gateway.mu.Lock()
		defer tg.gateway.mu.Unlock()
		return len(tg.gateway.sessions) == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, tg.gateway.Shutdown(ctx))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, 30*time.Second, cfg.PingInterval)
	assert.Equal(t, 90*time.Second, cfg.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxMessageBytes)
}
