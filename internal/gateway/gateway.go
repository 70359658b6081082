package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/allisson/orchestrator/internal/metrics"
	queueUseCase "github.com/allisson/orchestrator/internal/queue/usecase"
)

// Config holds gateway session settings.
type Config struct {
	PingInterval    time.Duration
	ReadTimeout     time.Duration
	MaxMessageBytes int64
}

func (c Config) withDefaults() Config {
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.ReadTimeout <= c.PingInterval {
		c.ReadTimeout = 3 * c.PingInterval
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 1 << 20
	}
	return c
}

// Gateway upgrades worker connections and runs their sessions.
type Gateway struct {
	useCase  queueUseCase.QueueUseCase
	registry *Registry
	config   Config
	metrics  metrics.SessionMetrics
	logger   *slog.Logger
	upgrader websocket.Upgrader
	wg       sync.WaitGroup

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewGateway creates a new Gateway. A nil sessionMetrics disables session metrics.
func NewGateway(
	useCase queueUseCase.QueueUseCase,
	registry *Registry,
	config Config,
	sessionMetrics metrics.SessionMetrics,
	logger *slog.Logger,
) *Gateway {
	if sessionMetrics == nil {
		sessionMetrics = metrics.NewNoOpSessionMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		useCase:  useCase,
		registry: registry,
		config:   config.withDefaults(),
		metrics:  sessionMetrics,
		logger:   logger,
		sessions: make(map[*session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is not checked; the route sits behind the API key middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Registry returns the gateway's session registry.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// RegisterRoutes mounts the worker WebSocket route on the given group.
func (g *Gateway) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/worker/:queue_name", g.WorkerHandler)
}

// WorkerHandler upgrades the request and serves the session until the worker disconnects.
// GET /v1/ws/worker/:queue_name?worker_id=<id>
// The worker id may instead be sent in the first envelope.
func (g *Gateway) WorkerHandler(c *gin.Context) {
	queueName := c.Param("queue_name")

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("worker upgrade failed", slog.String("queue", queueName), slog.Any("error", err))
		return
	}

	g.wg.Add(1)
	defer g.wg.Done()

	ctx := context.WithoutCancel(c.Request.Context())
	s := newSession(g, conn, queueName, "")
	g.track(s)
	defer g.untrack(s)
	if workerID := c.Query("worker_id"); workerID != "" {
		s.register(workerID)
	}

	g.metrics.SessionOpened(ctx, queueName)
	defer g.metrics.SessionClosed(ctx, queueName)

	go s.writePump()
	s.readPump(ctx)

	s.Close()
	if s.workerID != "" {
		g.registry.Unregister(s.workerID, s)
	}
	s.logger.Info("worker disconnected")
}

func (g *Gateway) track(s *session) {
	g.mu.Lock()
	g.sessions[s] = struct{}{}
	g.mu.Unlock()
}

func (g *Gateway) untrack(s *session) {
	g.mu.Lock()
	delete(g.sessions, s)
	g.mu.Unlock()
}

// Shutdown closes every live session, including those that have not identified their
// worker yet, and waits for their handlers to return or for ctx to expire.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.registry.CloseAll()

	g.mu.Lock()
	for s := range g.sessions {
		s.Close()
	}
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
