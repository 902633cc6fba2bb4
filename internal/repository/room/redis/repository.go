package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc               *redis.Client
	createRoomScript string
	updateRoomScript string
	expireDuration   time.Duration
	logger           *slog.Logger
}

// NewRepo loads the create-if-absent and update-if-present scripts and
// returns a room repository backed by rc. Keys are refreshed with
// expireDuration on every touch.
func NewRepo(rc *redis.Client, expireDuration time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc: rc,
		createRoomScript: rc.ScriptLoad(context.Background(), `
			if redis.call('EXISTS', KEYS[1]) == 1 then
				return 0
			end
			redis.call('HSET', KEYS[1],
				'host_user_id', ARGV[1],
				'host_session_id', ARGV[2],
				'video_id', '',
				'is_playing', '0',
				'current_time', '0',
				'created_at', ARGV[3])
			redis.call('HSET', KEYS[2], 'user_name', ARGV[4], 'is_approved', '1')
			redis.call('SADD', KEYS[3], ARGV[1])
			return 1
		`).Val(),
		// existence check and write in one step, so an expiring room
		// cannot be resurrected as a partial hash
		updateRoomScript: rc.ScriptLoad(context.Background(), `
			if redis.call('EXISTS', KEYS[1]) == 0 then
				return 0
			end
			redis.call('HSET', KEYS[1], unpack(ARGV))
			return 1
		`).Val(),
		expireDuration: expireDuration,
		logger:         logger,
	}
}
