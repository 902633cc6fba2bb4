package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/repository/room"
	"github.com/watchroom/server/internal/repository/session"
)

type JoinRoomParams struct {
	RoomId    string
	UserId    string
	Username  string
	SessionId string
}

// JoinRoom decides, for one connecting user, whether they are the host, an
// already approved viewer, or a first-time requester, and emits the matching
// events. A requester is not attached until the host approves them.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) error {
	s.rooms.Lock(params.RoomId)
	defer s.rooms.Unlock(params.RoomId)

	r, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	switch {
	case err == nil:
	case errors.Is(err, room.ErrRoomNotFound):
		created, err := s.createRoom(ctx, params)
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		// lost the create race to another connection, re-evaluate
		// against the room that won
		r, err = s.roomRepo.GetRoom(ctx, params.RoomId)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
	default:
		return fmt.Errorf("failed to get room: %w", err)
	}

	if r.HostUserId == params.UserId {
		return s.joinAsHost(ctx, params, &r)
	}

	permission, err := s.roomRepo.GetPermission(ctx, &room.GetPermissionParams{
		RoomId: params.RoomId,
		UserId: params.UserId,
	})
	if err != nil && !errors.Is(err, room.ErrPermissionNotFound) {
		return fmt.Errorf("failed to get permission: %w", err)
	}

	if err == nil && permission.IsApproved {
		return s.joinAsViewer(ctx, params, &r)
	}

	return s.requestJoin(ctx, params, &r)
}

// createRoom performs the atomic create-if-absent. The first connection to a
// nonexistent room becomes its host and is auto-approved. Returns false when
// another connection created the room first.
func (s service) createRoom(ctx context.Context, params *JoinRoomParams) (bool, error) {
	err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId:        params.RoomId,
		HostUserId:    params.UserId,
		HostSessionId: params.SessionId,
		HostName:      params.Username,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomAlreadyExists) {
			return false, nil
		}

		return false, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.InfoContext(ctx, "room created",
		"room_id", params.RoomId,
		"host_user_id", params.UserId,
	)

	s.sessionRepo.Add(&session.Session{
		Id:       params.SessionId,
		RoomId:   params.RoomId,
		UserId:   params.UserId,
		Username: params.Username,
	})

	s.hub.ToSession(ctx, params.SessionId, &Event{
		Type:    "host_status",
		Payload: HostStatusPayload{IsHost: true},
	})
	s.broadcastViewerCount(ctx, params.RoomId, params.SessionId)

	return true, nil
}

func (s service) joinAsHost(ctx context.Context, params *JoinRoomParams, r *room.Room) error {
	if r.HostSessionId != params.SessionId {
		if err := s.roomRepo.UpdateHostSessionId(ctx, &room.UpdateHostSessionIdParams{
			RoomId:        params.RoomId,
			HostSessionId: params.SessionId,
		}); err != nil {
			return fmt.Errorf("failed to update host session id: %w", err)
		}
		r.HostSessionId = params.SessionId
	}

	s.sessionRepo.Add(&session.Session{
		Id:       params.SessionId,
		RoomId:   params.RoomId,
		UserId:   params.UserId,
		Username: params.Username,
	})

	s.hub.ToSession(ctx, params.SessionId, &Event{
		Type:    "host_status",
		Payload: HostStatusPayload{IsHost: true},
	})
	s.sendCurrentState(ctx, params.SessionId, r)

	// a reconnecting host must not lose requests that arrived while away
	requests, err := s.roomRepo.GetJoinRequests(ctx, params.RoomId)
	if err != nil {
		return fmt.Errorf("failed to get join requests: %w", err)
	}
	for _, request := range requests {
		s.hub.ToSession(ctx, params.SessionId, &Event{
			Type: "join_request",
			Payload: JoinRequestPayload{
				Sid:  request.SessionId,
				Name: request.UserName,
			},
		})
	}

	s.broadcastViewerCount(ctx, params.RoomId, params.SessionId)

	s.logger.InfoContext(ctx, "host joined room",
		"room_id", params.RoomId,
		"session_id", params.SessionId,
	)

	return nil
}

func (s service) joinAsViewer(ctx context.Context, params *JoinRoomParams, r *room.Room) error {
	s.sessionRepo.Add(&session.Session{
		Id:       params.SessionId,
		RoomId:   params.RoomId,
		UserId:   params.UserId,
		Username: params.Username,
	})

	s.hub.ToSession(ctx, params.SessionId, &Event{
		Type:    "host_status",
		Payload: HostStatusPayload{IsHost: false},
	})
	s.sendCurrentState(ctx, params.SessionId, r)
	s.broadcastViewerCount(ctx, params.RoomId, r.HostSessionId)

	s.logger.InfoContext(ctx, "approved viewer joined room",
		"room_id", params.RoomId,
		"session_id", params.SessionId,
	)

	return nil
}

func (s service) requestJoin(ctx context.Context, params *JoinRoomParams, r *room.Room) error {
	if err := s.roomRepo.SetJoinRequest(ctx, &room.SetJoinRequestParams{
		RoomId:    params.RoomId,
		UserId:    params.UserId,
		UserName:  params.Username,
		SessionId: params.SessionId,
	}); err != nil {
		return fmt.Errorf("failed to set join request: %w", err)
	}

	s.hub.ToSession(ctx, r.HostSessionId, &Event{
		Type: "join_request",
		Payload: JoinRequestPayload{
			Sid:  params.SessionId,
			Name: params.Username,
		},
	})
	s.hub.ToSession(ctx, params.SessionId, &Event{
		Type:    "waiting_approval",
		Payload: MessagePayload{Message: "Waiting for host approval..."},
	})

	s.logger.InfoContext(ctx, "join request submitted",
		"room_id", params.RoomId,
		"session_id", params.SessionId,
		"user_id", params.UserId,
	)

	return nil
}
