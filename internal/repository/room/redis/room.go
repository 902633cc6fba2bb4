package redis

import (
	"context"
	"time"

	"github.com/watchroom/server/internal/repository/room"
)

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	res, err := r.rc.EvalSha(ctx, r.createRoomScript,
		[]string{
			r.getRoomKey(params.RoomId),
			r.getPermissionKey(params.RoomId, params.HostUserId),
			r.getPermissionListKey(params.RoomId),
		},
		params.HostUserId,
		params.HostSessionId,
		time.Now().Unix(),
		params.HostName,
	).Int()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomAlreadyExists)
		return room.ErrRoomAlreadyExists
	}

	pipe := r.rc.TxPipeline()
	pipe.Expire(ctx, r.getRoomKey(params.RoomId), r.expireDuration)
	pipe.Expire(ctx, r.getPermissionKey(params.RoomId, params.HostUserId), r.expireDuration)
	pipe.Expire(ctx, r.getPermissionListKey(params.RoomId), r.expireDuration)
	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"room_id": roomId,
	})
	roomKey := r.getRoomKey(roomId)
	cmd := r.rc.HGetAll(ctx, roomKey)
	if err := cmd.Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Room{}, err
	}

	if len(cmd.Val()) == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
		return room.Room{}, room.ErrRoomNotFound
	}

	var res room.Room
	if err := cmd.Scan(&res); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Room{}, err
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return res, nil
}

func (r repo) UpdateHostSessionId(ctx context.Context, params *room.UpdateHostSessionIdParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	roomKey := r.getRoomKey(params.RoomId)
	res, err := r.rc.EvalSha(ctx, r.updateRoomScript, []string{roomKey},
		"host_session_id", params.HostSessionId,
	).Int()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
		return room.ErrRoomNotFound
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return nil
}

func (r repo) UpdateRoomState(ctx context.Context, params *room.UpdateRoomStateParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	fields := make([]any, 0, 6)
	if params.VideoId != nil {
		fields = append(fields, "video_id", *params.VideoId)
	}
	if params.IsPlaying != nil {
		fields = append(fields, "is_playing", *params.IsPlaying)
	}
	if params.CurrentTime != nil {
		fields = append(fields, "current_time", *params.CurrentTime)
	}

	if len(fields) == 0 {
		return nil
	}

	roomKey := r.getRoomKey(params.RoomId)
	res, err := r.rc.EvalSha(ctx, r.updateRoomScript, []string{roomKey}, fields...).Int()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomNotFound)
		return room.ErrRoomNotFound
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return nil
}

// RemoveRoom cascade-deletes the room hash together with every permission
// and join request keyed under it. Removing an absent room is a no-op.
func (r repo) RemoveRoom(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"room_id": roomId,
	})
	permissionUserIds, err := r.rc.SMembers(ctx, r.getPermissionListKey(roomId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	requestUserIds, err := r.rc.SMembers(ctx, r.getJoinRequestListKey(roomId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, r.getRoomKey(roomId))
	for _, userId := range permissionUserIds {
		pipe.Del(ctx, r.getPermissionKey(roomId, userId))
	}
	pipe.Del(ctx, r.getPermissionListKey(roomId))
	for _, userId := range requestUserIds {
		pipe.Del(ctx, r.getJoinRequestKey(roomId, userId))
	}
	pipe.Del(ctx, r.getJoinRequestListKey(roomId))

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}
