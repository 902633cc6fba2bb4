package room

import (
	"context"
	"log/slog"

	"github.com/watchroom/server/internal/repository/room"
	"github.com/watchroom/server/internal/repository/session"
	"github.com/watchroom/server/pkg/keymutex"
)

type iRoomRepo interface {
	// room
	CreateRoom(context.Context, *room.CreateRoomParams) error
	GetRoom(context.Context, string) (room.Room, error)
	UpdateHostSessionId(context.Context, *room.UpdateHostSessionIdParams) error
	UpdateRoomState(context.Context, *room.UpdateRoomStateParams) error
	RemoveRoom(context.Context, string) error
	// permission
	SetPermission(context.Context, *room.SetPermissionParams) error
	GetPermission(context.Context, *room.GetPermissionParams) (room.Permission, error)
	// join request
	SetJoinRequest(context.Context, *room.SetJoinRequestParams) error
	GetJoinRequests(context.Context, string) ([]room.JoinRequestEntry, error)
	GetJoinRequestBySessionId(context.Context, *room.GetJoinRequestBySessionIdParams) (room.JoinRequestEntry, error)
	RemoveJoinRequest(context.Context, *room.RemoveJoinRequestParams) error
}

type iSessionRepo interface {
	Add(*session.Session)
	Remove(sessionId string) (session.Session, error)
	Get(sessionId string) (session.Session, error)
	GetByRoomId(roomId string) []session.Session
	Count(roomId string) int
	RemoveByRoomId(roomId string) []session.Session
}

// iHub delivers events to currently attached sessions. Delivery is fire and
// forget: the hub carries no acknowledgment or ordering promise.
type iHub interface {
	ToSession(ctx context.Context, sessionId string, event *Event)
	ToRoom(ctx context.Context, roomId string, event *Event)
	ToRoomExcept(ctx context.Context, roomId, exceptSessionId string, event *Event)
}

type service struct {
	roomRepo    iRoomRepo
	sessionRepo iSessionRepo
	hub         iHub
	// rooms serializes every read-then-write operation per room id, so
	// operations on different rooms never contend.
	rooms  *keymutex.KeyMutex
	logger *slog.Logger
}

func NewService(roomRepo iRoomRepo, sessionRepo iSessionRepo, hub iHub, logger *slog.Logger) *service {
	return &service{
		roomRepo:    roomRepo,
		sessionRepo: sessionRepo,
		hub:         hub,
		rooms:       keymutex.New(),
		logger:      logger,
	}
}
