package room

type CreateRoomParams struct {
	RoomId        string `json:"room_id"`
	HostUserId    string `json:"host_user_id"`
	HostSessionId string `json:"host_session_id"`
	HostName      string `json:"host_name"`
}

type UpdateHostSessionIdParams struct {
	RoomId        string `json:"room_id"`
	HostSessionId string `json:"host_session_id"`
}

// UpdateRoomStateParams carries a partial update. Nil fields are left
// unchanged.
type UpdateRoomStateParams struct {
	RoomId      string   `json:"room_id"`
	VideoId     *string  `json:"video_id"`
	IsPlaying   *bool    `json:"is_playing"`
	CurrentTime *float64 `json:"current_time"`
}

type SetPermissionParams struct {
	RoomId     string `json:"room_id"`
	UserId     string `json:"user_id"`
	UserName   string `json:"user_name"`
	IsApproved bool   `json:"is_approved"`
}

type GetPermissionParams struct {
	RoomId string `json:"room_id"`
	UserId string `json:"user_id"`
}

type SetJoinRequestParams struct {
	RoomId    string `json:"room_id"`
	UserId    string `json:"user_id"`
	UserName  string `json:"user_name"`
	SessionId string `json:"session_id"`
}

type GetJoinRequestBySessionIdParams struct {
	RoomId    string `json:"room_id"`
	SessionId string `json:"session_id"`
}

type RemoveJoinRequestParams struct {
	RoomId string `json:"room_id"`
	UserId string `json:"user_id"`
}
