package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	"github.com/allisson/orchestrator/internal/httputil"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
	"github.com/allisson/orchestrator/internal/queue/http/dto"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// session is one connected worker. Messages are handled one at a time in the read loop;
// replies go through send so that only writePump writes to the connection.
type session struct {
	gateway   *Gateway
	conn      *websocket.Conn
	queueName string
	workerID  string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

func newSession(g *Gateway, conn *websocket.Conn, queueName, workerID string) *session {
	return &session{
		gateway:   g,
		conn:      conn,
		queueName: queueName,
		workerID:  workerID,
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
		logger:    g.logger.With(slog.String("queue", queueName)),
	}
}

// Close terminates the session. Safe to call from any goroutine, any number of times.
func (s *session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *session) register(workerID string) {
	s.workerID = workerID
	s.logger = s.logger.With(slog.String("worker_id", workerID))
	s.gateway.registry.Register(workerID, s)
	s.logger.Info("worker connected")
}

// readPump reads envelopes until the transport fails or the session is closed.
func (s *session) readPump(ctx context.Context) {
	cfg := s.gateway.config

	s.conn.SetReadLimit(cfg.MaxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("worker session read failed", slog.Any("error", err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		reply := s.handleMessage(ctx, message)
		if !s.reply(reply) {
			return
		}
	}
}

// writePump delivers replies and keeps the connection alive with pings.
func (s *session) writePump() {
	ticker := time.NewTicker(s.gateway.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) reply(v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode worker reply", slog.Any("error", err))
		payload = []byte(`{"error":"internal error"}`)
	}

	select {
	case s.send <- payload:
		return true
	case <-s.done:
		return false
	}
}

// handleMessage runs one action and returns the reply. It never returns an error: failures
// become an ErrorReply and the session carries on.
func (s *session) handleMessage(ctx context.Context, message []byte) any {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		s.gateway.metrics.ActionHandled(ctx, s.queueName, "invalid", "error")
		return ErrorReply{Error: "invalid message: expected a JSON object with an action"}
	}

	if s.workerID == "" && env.WorkerID != "" {
		s.register(env.WorkerID)
	}

	handler, ok := actions[env.Action]
	if !ok {
		s.gateway.metrics.ActionHandled(ctx, s.queueName, "unknown", "error")
		return ErrorReply{Error: "invalid action '" + env.Action + "'"}
	}

	reply, err := handler(ctx, s, &env)
	if err != nil {
		s.gateway.metrics.ActionHandled(ctx, s.queueName, env.Action, "error")
		level := slog.LevelWarn
		if errorMessage(err) == "internal error" {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "worker action failed", slog.String("action", env.Action), slog.Any("error", err))
		return ErrorReply{Error: errorMessage(err)}
	}

	s.gateway.metrics.ActionHandled(ctx, s.queueName, env.Action, "success")
	return reply
}

type actionFunc func(ctx context.Context, s *session, env *Envelope) (any, error)

var actions = map[string]actionFunc{
	ActionGetNext:     getNext,
	ActionMarkSuccess: markSuccess,
	ActionMarkFail:    markFail,
}

func getNext(ctx context.Context, s *session, env *Envelope) (any, error) {
	workerID := env.WorkerID
	if workerID == "" {
		workerID = s.workerID
	}
	if workerID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "worker_id is required")
	}

	item, err := s.gateway.useCase.LeaseNext(ctx, s.queueName, workerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return httputil.MessageResponse{Message: dto.MessageNoItems}, nil
	}
	return ItemReply{Item: dto.MapItemToResponse(item)}, nil
}

func markSuccess(ctx context.Context, s *session, env *Envelope) (any, error) {
	data, err := parseData(env.Data)
	if err != nil {
		return nil, err
	}
	itemID, err := data.itemID()
	if err != nil {
		return nil, err
	}

	item, err := s.gateway.useCase.RecordSuccess(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return dto.ItemOutcomeResponse{Status: dto.StatusItemSucceeded, ItemID: item.ID.String()}, nil
}

func markFail(ctx context.Context, s *session, env *Envelope) (any, error) {
	data, err := parseData(env.Data)
	if err != nil {
		return nil, err
	}
	itemID, err := data.itemID()
	if err != nil {
		return nil, err
	}

	item, err := s.gateway.useCase.RecordFailure(
		ctx,
		itemID,
		data.Error,
		queueDomain.ParseFailureKind(data.ExceptionType),
	)
	if err != nil {
		return nil, err
	}
	return dto.ItemOutcomeResponse{Status: dto.StatusItemFailed, ItemID: item.ID.String()}, nil
}
