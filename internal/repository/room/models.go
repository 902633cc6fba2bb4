package room

type Room struct {
	HostUserId    string  `redis:"host_user_id" json:"host_user_id"`
	HostSessionId string  `redis:"host_session_id" json:"host_session_id"`
	VideoId       string  `redis:"video_id" json:"video_id"`
	IsPlaying     bool    `redis:"is_playing" json:"is_playing"`
	CurrentTime   float64 `redis:"current_time" json:"current_time"`
	CreatedAt     int64   `redis:"created_at" json:"created_at"`
}

type Permission struct {
	UserName   string `redis:"user_name" json:"user_name"`
	IsApproved bool   `redis:"is_approved" json:"is_approved"`
}

type JoinRequest struct {
	UserName  string `redis:"user_name" json:"user_name"`
	SessionId string `redis:"session_id" json:"session_id"`
	CreatedAt int64  `redis:"created_at" json:"created_at"`
}

// JoinRequestEntry is a JoinRequest together with the user id it is keyed by.
type JoinRequestEntry struct {
	UserId    string `json:"user_id"`
	UserName  string `json:"user_name"`
	SessionId string `json:"session_id"`
	CreatedAt int64  `json:"created_at"`
}
