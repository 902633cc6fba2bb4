package redis

import (
	"context"
	"time"

	"github.com/watchroom/server/internal/repository/room"
)

func (r repo) getJoinRequestKey(roomId, userId string) string {
	return "room:" + roomId + ":request:" + userId
}

func (r repo) getJoinRequestListKey(roomId string) string {
	return "room:" + roomId + ":requests"
}

// SetJoinRequest upserts the request keyed by (roomId, userId), so a repeated
// join from the same user replaces the stored session id instead of adding a
// second request.
func (r repo) SetJoinRequest(ctx context.Context, params *room.SetJoinRequestParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	joinRequestKey := r.getJoinRequestKey(params.RoomId, params.UserId)
	joinRequestListKey := r.getJoinRequestListKey(params.RoomId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, joinRequestKey,
		"user_name", params.UserName,
		"session_id", params.SessionId,
		"created_at", time.Now().Unix(),
	)
	pipe.Expire(ctx, joinRequestKey, r.expireDuration)
	pipe.SAdd(ctx, joinRequestListKey, params.UserId)
	pipe.Expire(ctx, joinRequestListKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetJoinRequests(ctx context.Context, roomId string) ([]room.JoinRequestEntry, error) {
	r.logger.DebugContext(ctx, "called", "params", map[string]any{
		"room_id": roomId,
	})
	userIds, err := r.rc.SMembers(ctx, r.getJoinRequestListKey(roomId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	entries := make([]room.JoinRequestEntry, 0, len(userIds))
	for _, userId := range userIds {
		cmd := r.rc.HGetAll(ctx, r.getJoinRequestKey(roomId, userId))
		if err := cmd.Err(); err != nil {
			r.logger.DebugContext(ctx, "returned", "error", err)
			return nil, err
		}

		if len(cmd.Val()) == 0 {
			continue
		}

		var request room.JoinRequest
		if err := cmd.Scan(&request); err != nil {
			r.logger.DebugContext(ctx, "returned", "error", err)
			return nil, err
		}

		entries = append(entries, room.JoinRequestEntry{
			UserId:    userId,
			UserName:  request.UserName,
			SessionId: request.SessionId,
			CreatedAt: request.CreatedAt,
		})
	}

	return entries, nil
}

func (r repo) GetJoinRequestBySessionId(ctx context.Context, params *room.GetJoinRequestBySessionIdParams) (room.JoinRequestEntry, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	entries, err := r.GetJoinRequests(ctx, params.RoomId)
	if err != nil {
		return room.JoinRequestEntry{}, err
	}

	for _, entry := range entries {
		if entry.SessionId == params.SessionId {
			return entry, nil
		}
	}

	r.logger.DebugContext(ctx, "returned", "error", room.ErrJoinRequestNotFound)
	return room.JoinRequestEntry{}, room.ErrJoinRequestNotFound
}

func (r repo) RemoveJoinRequest(ctx context.Context, params *room.RemoveJoinRequestParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	res, err := r.rc.Del(ctx, r.getJoinRequestKey(params.RoomId, params.UserId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if err := r.rc.SRem(ctx, r.getJoinRequestListKey(params.RoomId), params.UserId).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrJoinRequestNotFound)
		return room.ErrJoinRequestNotFound
	}

	return nil
}
