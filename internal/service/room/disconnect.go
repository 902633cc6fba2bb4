package room

import (
	"context"
	"errors"

	"github.com/watchroom/server/internal/repository/room"
	"github.com/watchroom/server/internal/repository/session"
)

type DisconnectParams struct {
	SessionId string
}

// Disconnect detaches the session and runs the cascade: a departing host
// closes the room for everyone; a room left with zero live sessions is
// treated as abandoned and closed too. Store failures here are logged and
// swallowed so cleanup of one room cannot block others.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) error {
	sess, err := s.sessionRepo.Get(params.SessionId)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}

		return err
	}

	s.rooms.Lock(sess.RoomId)
	defer s.rooms.Unlock(sess.RoomId)

	s.sessionRepo.Remove(params.SessionId)

	r, err := s.roomRepo.GetRoom(ctx, sess.RoomId)
	if err != nil {
		if !errors.Is(err, room.ErrRoomNotFound) {
			s.logger.WarnContext(ctx, "failed to get room during disconnect",
				"room_id", sess.RoomId,
				"error", err,
			)
		}
		return nil
	}

	if r.HostSessionId == params.SessionId {
		s.hub.ToRoom(ctx, sess.RoomId, &Event{
			Type:    "error",
			Payload: MessagePayload{Message: "The host has left. This room is now closed."},
		})

		if err := s.roomRepo.RemoveRoom(ctx, sess.RoomId); err != nil {
			s.logger.WarnContext(ctx, "failed to remove room",
				"room_id", sess.RoomId,
				"error", err,
			)
		}
		s.sessionRepo.RemoveByRoomId(sess.RoomId)

		s.logger.InfoContext(ctx, "host left, room closed", "room_id", sess.RoomId)

		return nil
	}

	if s.sessionRepo.Count(sess.RoomId) > 0 {
		s.broadcastViewerCount(ctx, sess.RoomId, r.HostSessionId)
		return nil
	}

	// zero live sessions left: the room is abandoned even though the host
	// record may still be persisted
	if err := s.roomRepo.RemoveRoom(ctx, sess.RoomId); err != nil {
		s.logger.WarnContext(ctx, "failed to remove abandoned room",
			"room_id", sess.RoomId,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "abandoned room closed", "room_id", sess.RoomId)

	return nil
}
