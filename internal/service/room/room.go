package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/repository/room"
)

type RoomState struct {
	RoomId      string  `json:"room_id"`
	VideoId     string  `json:"video_id"`
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"`
	ViewerCount int     `json:"viewer_count"`
}

// GetRoomState serves the page layer's room lookup.
func (s service) GetRoomState(ctx context.Context, roomId string) (RoomState, error) {
	r, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return RoomState{}, ErrRoomNotFound
		}

		return RoomState{}, fmt.Errorf("failed to get room: %w", err)
	}

	return RoomState{
		RoomId:      roomId,
		VideoId:     r.VideoId,
		IsPlaying:   r.IsPlaying,
		CurrentTime: r.CurrentTime,
		ViewerCount: s.viewerCount(roomId, r.HostSessionId),
	}, nil
}
