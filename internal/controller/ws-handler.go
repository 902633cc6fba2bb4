package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/ctxlogger"
	"github.com/watchroom/server/pkg/wsrouter"
)

const defaultUsername = "Anonymous"

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.loggerWSMw())
	mux.OnError(c.handleWSError)

	mux.Handle("join", c.handleJoin)
	mux.Handle("sync_action", c.handleSyncAction)
	mux.Handle("change_video", c.handleChangeVideo)
	mux.Handle("approve_join", c.handleApproveJoin)
	mux.Handle("deny_join", c.handleDenyJoin)
	mux.Handle("request_sync", c.handleRequestSync)
	mux.Handle("get_viewers", c.handleGetViewers)

	return mux
}

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	sessionId := uuid.NewString()
	wrappedConn := connection.NewConn(conn)
	if err := c.connRepo.Add(wrappedConn, sessionId); err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), sessionIdCtxKey, sessionId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("session_id", sessionId))

	defer func() {
		if err := c.roomService.Disconnect(ctx, &room.DisconnectParams{
			SessionId: sessionId,
		}); err != nil {
			c.logger.WarnContext(ctx, "failed to disconnect session", "error", err)
		}
		c.connRepo.RemoveByConn(wrappedConn)
	}()

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}
}

// handleWSError replies through the registered write-locked connection, never
// through the raw one, so error replies cannot race event delivery.
func (c controller) handleWSError(ctx context.Context, _ *websocket.Conn, err error) {
	message := "internal error"
	if errors.Is(err, wsrouter.ErrUnknownMessageType) {
		message = err.Error()
	} else {
		c.logger.WarnContext(ctx, "failed to handle message", "error", err)
	}

	conn, connErr := c.connRepo.GetConn(c.getSessionIdFromCtx(ctx))
	if connErr != nil {
		c.logger.WarnContext(ctx, "no connection for error reply", "error", connErr)
		return
	}

	conn.WriteJSON(&room.Event{
		Type:    "error",
		Payload: room.MessagePayload{Message: message},
	})
}

// decode unmarshals a message payload and validates it.
func (c controller) decode(payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if validationErrors, ok := c.validate.Validate(dst); !ok {
		return fmt.Errorf("invalid payload: %v", validationErrors)
	}

	return nil
}

type JoinInput struct {
	Room   string `json:"room" validate:"required,max=64"`
	Name   string `json:"name" validate:"max=32"`
	UserId string `json:"userId" validate:"required,max=64"`
}

func (c controller) handleJoin(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input JoinInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	if input.Name == "" {
		input.Name = defaultUsername
	}

	return c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:    input.Room,
		UserId:    input.UserId,
		Username:  input.Name,
		SessionId: c.getSessionIdFromCtx(ctx),
	})
}

type SyncActionInput struct {
	Room   string  `json:"room" validate:"required,max=64"`
	Action string  `json:"action" validate:"required,oneof=play pause seek"`
	Time   float64 `json:"time"`
}

func (c controller) handleSyncAction(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input SyncActionInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	return c.roomService.SyncAction(ctx, &room.SyncActionParams{
		RoomId:   input.Room,
		SenderId: c.getSessionIdFromCtx(ctx),
		Action:   input.Action,
		Time:     input.Time,
	})
}

type ChangeVideoInput struct {
	Room    string `json:"room" validate:"required,max=64"`
	VideoId string `json:"videoId" validate:"required,max=64"`
}

func (c controller) handleChangeVideo(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ChangeVideoInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	return c.roomService.ChangeVideo(ctx, &room.ChangeVideoParams{
		RoomId:   input.Room,
		SenderId: c.getSessionIdFromCtx(ctx),
		VideoId:  input.VideoId,
	})
}

type ApproveJoinInput struct {
	Room      string `json:"room" validate:"required,max=64"`
	ViewerSid string `json:"viewer_sid" validate:"required"`
}

func (c controller) handleApproveJoin(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ApproveJoinInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	return c.roomService.ApproveJoin(ctx, &room.ApproveJoinParams{
		RoomId:             input.Room,
		SenderId:           c.getSessionIdFromCtx(ctx),
		RequesterSessionId: input.ViewerSid,
	})
}

type DenyJoinInput struct {
	Room      string `json:"room" validate:"required,max=64"`
	ViewerSid string `json:"viewer_sid" validate:"required"`
}

func (c controller) handleDenyJoin(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input DenyJoinInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	return c.roomService.DenyJoin(ctx, &room.DenyJoinParams{
		RoomId:             input.Room,
		SenderId:           c.getSessionIdFromCtx(ctx),
		RequesterSessionId: input.ViewerSid,
	})
}

type RequestSyncInput struct {
	Room string `json:"room" validate:"required,max=64"`
}

func (c controller) handleRequestSync(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RequestSyncInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	return c.roomService.RequestSync(ctx, &room.RequestSyncParams{
		RoomId:   input.Room,
		SenderId: c.getSessionIdFromCtx(ctx),
	})
}

type GetViewersInput struct {
	Room string `json:"room" validate:"required,max=64"`
}

func (c controller) handleGetViewers(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input GetViewersInput
	if err := c.decode(payload, &input); err != nil {
		return err
	}

	return c.roomService.GetViewers(ctx, &room.GetViewersParams{
		RoomId:   input.Room,
		SenderId: c.getSessionIdFromCtx(ctx),
	})
}
