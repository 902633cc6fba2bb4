package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/repository/room"
)

type SyncActionParams struct {
	RoomId   string
	SenderId string
	Action   string
	Time     float64
}

// SyncAction records a play/pause/seek and mirrors it to every other session
// in the room. Any connected session may drive sync. An action for a room
// absent from the store is dropped rather than creating a bare room record.
func (s service) SyncAction(ctx context.Context, params *SyncActionParams) error {
	s.rooms.Lock(params.RoomId)
	defer s.rooms.Unlock(params.RoomId)

	if _, err := s.roomRepo.GetRoom(ctx, params.RoomId); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			s.logger.DebugContext(ctx, "sync action for absent room dropped",
				"room_id", params.RoomId,
			)
			return nil
		}

		return fmt.Errorf("failed to get room: %w", err)
	}

	isPlaying := params.Action == "play"
	if err := s.roomRepo.UpdateRoomState(ctx, &room.UpdateRoomStateParams{
		RoomId:      params.RoomId,
		IsPlaying:   &isPlaying,
		CurrentTime: &params.Time,
	}); err != nil {
		return fmt.Errorf("failed to update room state: %w", err)
	}

	s.hub.ToRoomExcept(ctx, params.RoomId, params.SenderId, &Event{
		Type: "sync_action",
		Payload: SyncActionPayload{
			Room:   params.RoomId,
			Action: params.Action,
			Time:   params.Time,
		},
	})

	return nil
}

type ChangeVideoParams struct {
	RoomId   string
	SenderId string
	VideoId  string
}

// ChangeVideo is host-only. On success the room's playback resets to a paused
// state at zero and the whole room, host included, is told to switch.
func (s service) ChangeVideo(ctx context.Context, params *ChangeVideoParams) error {
	s.rooms.Lock(params.RoomId)
	defer s.rooms.Unlock(params.RoomId)

	r, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			s.hub.ToSession(ctx, params.SenderId, &Event{
				Type:    "error",
				Payload: MessagePayload{Message: "Room does not exist"},
			})
			return nil
		}

		return fmt.Errorf("failed to get room: %w", err)
	}

	if r.HostSessionId != params.SenderId {
		s.logger.InfoContext(ctx, "non-host attempted to change video",
			"room_id", params.RoomId,
			"sender_id", params.SenderId,
		)
		s.hub.ToSession(ctx, params.SenderId, &Event{
			Type:    "error",
			Payload: MessagePayload{Message: "Only the host can change the video"},
		})
		return nil
	}

	isPlaying := false
	currentTime := 0.0
	if err := s.roomRepo.UpdateRoomState(ctx, &room.UpdateRoomStateParams{
		RoomId:      params.RoomId,
		VideoId:     &params.VideoId,
		IsPlaying:   &isPlaying,
		CurrentTime: &currentTime,
	}); err != nil {
		return fmt.Errorf("failed to update room state: %w", err)
	}

	s.hub.ToRoom(ctx, params.RoomId, &Event{
		Type: "change_video",
		Payload: ChangeVideoPayload{
			Room:    params.RoomId,
			VideoId: params.VideoId,
		},
	})

	s.logger.InfoContext(ctx, "video changed",
		"room_id", params.RoomId,
		"video_id", params.VideoId,
	)

	return nil
}

type RequestSyncParams struct {
	RoomId   string
	SenderId string
}

// RequestSync replies to the caller alone with the authoritative playback
// state. Silent no-op when the room does not exist.
func (s service) RequestSync(ctx context.Context, params *RequestSyncParams) error {
	s.rooms.Lock(params.RoomId)
	defer s.rooms.Unlock(params.RoomId)

	r, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil
		}

		return fmt.Errorf("failed to get room: %w", err)
	}

	s.hub.ToSession(ctx, params.SenderId, &Event{
		Type: "current_state",
		Payload: CurrentStatePayload{
			VideoId:   r.VideoId,
			IsPlaying: r.IsPlaying,
			Time:      r.CurrentTime,
		},
	})

	return nil
}

type GetViewersParams struct {
	RoomId   string
	SenderId string
}

// GetViewers is host-only; non-host callers get no response. Lists every
// attached session in the room except the host's own.
func (s service) GetViewers(ctx context.Context, params *GetViewersParams) error {
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
		s.logger.InfoContext(ctx, "get viewers from non-host ignored",
			"room_id", params.RoomId,
			"sender_id", params.SenderId,
		)
		return nil
	}

	sessions := s.sessionRepo.GetByRoomId(params.RoomId)
	viewers := make([]Viewer, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Id == params.SenderId {
			continue
		}

		viewers = append(viewers, Viewer{
			Name:   sess.Username,
			UserId: sess.UserId,
		})
	}

	s.hub.ToSession(ctx, params.SenderId, &Event{
		Type:    "viewers_list",
		Payload: ViewersListPayload{Viewers: viewers},
	})

	return nil
}
