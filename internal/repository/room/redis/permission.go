package redis

import (
	"context"

	"github.com/watchroom/server/internal/repository/room"
)

func (r repo) getPermissionKey(roomId, userId string) string {
	return "room:" + roomId + ":permission:" + userId
}

func (r repo) getPermissionListKey(roomId string) string {
	return "room:" + roomId + ":permissions"
}

func (r repo) SetPermission(ctx context.Context, params *room.SetPermissionParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	permissionKey := r.getPermissionKey(params.RoomId, params.UserId)
	permissionListKey := r.getPermissionListKey(params.RoomId)

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, permissionKey,
		"user_name", params.UserName,
		"is_approved", params.IsApproved,
	)
	pipe.Expire(ctx, permissionKey, r.expireDuration)
	pipe.SAdd(ctx, permissionListKey, params.UserId)
	pipe.Expire(ctx, permissionListKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetPermission(ctx context.Context, params *room.GetPermissionParams) (room.Permission, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	cmd := r.rc.HGetAll(ctx, r.getPermissionKey(params.RoomId, params.UserId))
	if err := cmd.Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Permission{}, err
	}

	if len(cmd.Val()) == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrPermissionNotFound)
		return room.Permission{}, room.ErrPermissionNotFound
	}

	var permission room.Permission
	if err := cmd.Scan(&permission); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Permission{}, err
	}

	return permission, nil
}
