package session

import "errors"

var ErrNotFound = errors.New("session not found")

// Session is one live connection's room membership. Sessions live only in
// memory: a process restart drops them all while rooms, permissions and join
// requests survive in the store.
type Session struct {
	Id       string `json:"id"`
	RoomId   string `json:"room_id"`
	UserId   string `json:"user_id"`
	Username string `json:"username"`
}
