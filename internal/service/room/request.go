package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/repository/room"
	"github.com/watchroom/server/internal/repository/session"
)

type ApproveJoinParams struct {
	RoomId             string
	SenderId           string
	RequesterSessionId string
}

// ApproveJoin turns a pending request into a persisted permission and attaches
// the requester. Silently does nothing when the sender is not the current host
// session or no such request exists.
func (s service) ApproveJoin(ctx context.Context, params *ApproveJoinParams) error {
	s.rooms.Lock(params.RoomId)
	defer s.rooms.Unlock(params.RoomId)

	r, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil
		}

		return fmt.Errorf("failed to get room: %w", err)
	}

	if r.HostSessionId != params.SenderId {
		s.logger.InfoContext(ctx, "approve join from non-host ignored",
			"room_id", params.RoomId,
			"sender_id", params.SenderId,
		)
		return nil
	}

	request, err := s.roomRepo.GetJoinRequestBySessionId(ctx, &room.GetJoinRequestBySessionIdParams{
		RoomId:    params.RoomId,
		SessionId: params.RequesterSessionId,
	})
	if err != nil {
		if errors.Is(err, room.ErrJoinRequestNotFound) {
			return nil
		}

		return fmt.Errorf("failed to get join request: %w", err)
	}

	if err := s.roomRepo.SetPermission(ctx, &room.SetPermissionParams{
		RoomId:     params.RoomId,
		UserId:     request.UserId,
		UserName:   request.UserName,
		IsApproved: true,
	}); err != nil {
		return fmt.Errorf("failed to set permission: %w", err)
	}

	if err := s.roomRepo.RemoveJoinRequest(ctx, &room.RemoveJoinRequestParams{
		RoomId: params.RoomId,
		UserId: request.UserId,
	}); err != nil && !errors.Is(err, room.ErrJoinRequestNotFound) {
		return fmt.Errorf("failed to remove join request: %w", err)
	}

	s.sessionRepo.Add(&session.Session{
		Id:       request.SessionId,
		RoomId:   params.RoomId,
		UserId:   request.UserId,
		Username: request.UserName,
	})

	s.hub.ToSession(ctx, request.SessionId, &Event{
		Type:    "join_approved",
		Payload: JoinApprovedPayload{Room: params.RoomId},
	})
	s.hub.ToSession(ctx, request.SessionId, &Event{
		Type:    "host_status",
		Payload: HostStatusPayload{IsHost: false},
	})
	s.sendCurrentState(ctx, request.SessionId, &r)
	s.broadcastViewerCount(ctx, params.RoomId, r.HostSessionId)

	s.logger.InfoContext(ctx, "viewer approved",
		"room_id", params.RoomId,
		"user_id", request.UserId,
		"session_id", request.SessionId,
	)

	return nil
}

type DenyJoinParams struct {
	RoomId             string
	SenderId           string
	RequesterSessionId string
}

// DenyJoin removes a pending request without ever writing a permission, so a
// denied user may request again later.
func (s service) DenyJoin(ctx context.Context, params *DenyJoinParams) error {
	s.rooms.Lock(params.RoomId)
	defer s.rooms.Unlock(params.RoomId)

	r, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil
		}

		return fmt.Errorf("failed to get room: %w", err)
	}

	if r.HostSessionId != params.SenderId {
		s.logger.InfoContext(ctx, "deny join from non-host ignored",
			"room_id", params.RoomId,
			"sender_id", params.SenderId,
		)
		return nil
	}

	requesterName := "User"
	request, err := s.roomRepo.GetJoinRequestBySessionId(ctx, &room.GetJoinRequestBySessionIdParams{
		RoomId:    params.RoomId,
		SessionId: params.RequesterSessionId,
	})
	switch {
	case err == nil:
		requesterName = request.UserName
		if err := s.roomRepo.RemoveJoinRequest(ctx, &room.RemoveJoinRequestParams{
			RoomId: params.RoomId,
			UserId: request.UserId,
		}); err != nil && !errors.Is(err, room.ErrJoinRequestNotFound) {
			return fmt.Errorf("failed to remove join request: %w", err)
		}
	case errors.Is(err, room.ErrJoinRequestNotFound):
	default:
		return fmt.Errorf("failed to get join request: %w", err)
	}

	s.hub.ToSession(ctx, params.RequesterSessionId, &Event{
		Type: "join_denied",
		Payload: MessagePayload{
			Message: fmt.Sprintf("Sorry %s, the host denied your request to join this room.", requesterName),
		},
	})

	s.logger.InfoContext(ctx, "viewer denied",
		"room_id", params.RoomId,
		"session_id", params.RequesterSessionId,
	)

	return nil
}
