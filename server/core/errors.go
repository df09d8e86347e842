package core

import "errors"

// Request errors. Their text is what the client sees in an Error message.
var (
	ErrRoomFull          = errors.New("room already full")
	ErrRoomNotFound      = errors.New("non-existent room code")
	ErrAlreadyInProgress = errors.New("game already in progress")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrCodeExhausted     = errors.New("could not allocate a room code")
)
