// Package ws delivers room events over the websocket connections registered
// for each session. Delivery is best effort: a failed write is logged, never
// retried, and never surfaced to the sender. Writes to one connection are
// serialized by the connection's own write lock.
package ws

import (
	"context"
	"log/slog"

	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/repository/session"
	"github.com/watchroom/server/internal/service/room"
)

type iConnRepo interface {
	GetConn(sessionId string) (*connection.Conn, error)
}

type iSessionRepo interface {
	GetByRoomId(roomId string) []session.Session
}

type hub struct {
	connRepo    iConnRepo
	sessionRepo iSessionRepo
	logger      *slog.Logger
}

func NewHub(connRepo iConnRepo, sessionRepo iSessionRepo, logger *slog.Logger) *hub {
	return &hub{
		connRepo:    connRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

func (h *hub) ToSession(ctx context.Context, sessionId string, event *room.Event) {
	conn, err := h.connRepo.GetConn(sessionId)
	if err != nil {
		h.logger.DebugContext(ctx, "no connection for session",
			"session_id", sessionId,
			"event_type", event.Type,
		)
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		h.logger.WarnContext(ctx, "failed to write event",
			"session_id", sessionId,
			"event_type", event.Type,
			"error", err,
		)
	}
}

func (h *hub) ToRoom(ctx context.Context, roomId string, event *room.Event) {
	for _, sess := range h.sessionRepo.GetByRoomId(roomId) {
		h.ToSession(ctx, sess.Id, event)
	}
}

func (h *hub) ToRoomExcept(ctx context.Context, roomId, exceptSessionId string, event *room.Event) {
	for _, sess := range h.sessionRepo.GetByRoomId(roomId) {
		if sess.Id == exceptSessionId {
			continue
		}

		h.ToSession(ctx, sess.Id, event)
	}
}
