package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/validator"
	"github.com/watchroom/server/pkg/wsrouter"
)

type iRoomService interface {
	JoinRoom(context.Context, *room.JoinRoomParams) error
	SyncAction(context.Context, *room.SyncActionParams) error
	ChangeVideo(context.Context, *room.ChangeVideoParams) error
	ApproveJoin(context.Context, *room.ApproveJoinParams) error
	DenyJoin(context.Context, *room.DenyJoinParams) error
	RequestSync(context.Context, *room.RequestSyncParams) error
	GetViewers(context.Context, *room.GetViewersParams) error
	Disconnect(context.Context, *room.DisconnectParams) error
	GetRoomState(ctx context.Context, roomId string) (room.RoomState, error)
}

type iConnRepo interface {
	Add(conn *connection.Conn, sessionId string) error
	RemoveByConn(conn *connection.Conn) error
	GetConn(sessionId string) (*connection.Conn, error)
}

type controller struct {
	roomService iRoomService
	connRepo    iConnRepo
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	logger      *slog.Logger
}

func NewController(roomService iRoomService, connRepo iConnRepo, logger *slog.Logger) *controller {
	c := &controller{
		roomService: roomService,
		connRepo:    connRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
