package room

import (
	"context"

	"github.com/watchroom/server/internal/repository/room"
)

// viewerCount reports the number of attached sessions minus the host's own,
// whenever the host currently has a live session in the room. Never negative.
func (s service) viewerCount(roomId, hostSessionId string) int {
	count := s.sessionRepo.Count(roomId)
	if hostSessionId != "" {
		if sess, err := s.sessionRepo.Get(hostSessionId); err == nil && sess.RoomId == roomId {
			count--
		}
	}

	if count < 0 {
		count = 0
	}

	return count
}

func (s service) broadcastViewerCount(ctx context.Context, roomId, hostSessionId string) {
	s.hub.ToRoom(ctx, roomId, &Event{
		Type:    "viewer_count",
		Payload: ViewerCountPayload{Count: s.viewerCount(roomId, hostSessionId)},
	})
}

// sendCurrentState sends the authoritative playback state to one session,
// but only once the room has a video set.
func (s service) sendCurrentState(ctx context.Context, sessionId string, r *room.Room) {
	if r.VideoId == "" {
		return
	}

	s.hub.ToSession(ctx, sessionId, &Event{
		Type: "current_state",
		Payload: CurrentStatePayload{
			VideoId:   r.VideoId,
			IsPlaying: r.IsPlaying,
			Time:      r.CurrentTime,
		},
	})
}
