package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomAlreadyExists   = errors.New("room already exists")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrJoinRequestNotFound = errors.New("join request not found")
)
