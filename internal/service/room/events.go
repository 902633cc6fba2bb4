package room

// Event is the unit of delivery through the hub. Field names in the payloads
// match the wire protocol the web client speaks.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type HostStatusPayload struct {
	IsHost bool `json:"isHost"`
}

type ViewerCountPayload struct {
	Count int `json:"count"`
}

type CurrentStatePayload struct {
	VideoId   string  `json:"videoId"`
	IsPlaying bool    `json:"isPlaying"`
	Time      float64 `json:"time"`
}

type JoinRequestPayload struct {
	Sid  string `json:"sid"`
	Name string `json:"name"`
}

type JoinApprovedPayload struct {
	Room string `json:"room"`
}

type MessagePayload struct {
	Message string `json:"message"`
}

type Viewer struct {
	Name   string `json:"name"`
	UserId string `json:"userId"`
}

type ViewersListPayload struct {
	Viewers []Viewer `json:"viewers"`
}

type SyncActionPayload struct {
	Room   string  `json:"room"`
	Action string  `json:"action"`
	Time   float64 `json:"time"`
}

type ChangeVideoPayload struct {
	Room    string `json:"room"`
	VideoId string `json:"videoId"`
}
