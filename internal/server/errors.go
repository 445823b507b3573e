package server

import (
	"errors"

	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

// Error is a session-level failure reported to a single connection
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrSessionNotFound  = &Error{Code: "SessionNotFound", Message: "no such session"}
	ErrSessionFull      = &Error{Code: "SessionFull", Message: "every seat is taken"}
	ErrSeatTaken        = &Error{Code: "SeatTaken", Message: "player id is already seated"}
	ErrInvalidToken     = &Error{Code: "InvalidToken", Message: "reconnect token does not match"}
	ErrNotJoined        = &Error{Code: "NotJoined", Message: "join a session first"}
	ErrAlreadyJoined    = &Error{Code: "AlreadyJoined", Message: "connection already joined a session"}
	ErrWaitingOnPlayers = &Error{Code: "WaitingForPlayers", Message: "round has not started"}
	ErrSessionClosed    = &Error{Code: "SessionClosed", Message: "session is over"}
	ErrInvalidMessage   = &Error{Code: "InvalidMessage", Message: "message failed validation"}
)

// errorData maps any error to the wire error payload. Rule rejections use
// their kind as the code.
func errorData(err error) protocol.ErrorData {
	if kind := game.KindOf(err); kind != "" {
		return protocol.ErrorData{Code: string(kind), Message: err.Error()}
	}
	var se *Error
	if errors.As(err, &se) {
		return protocol.ErrorData{Code: se.Code, Message: se.Message}
	}
	return protocol.ErrorData{Code: "InternalError", Message: err.Error()}
}
