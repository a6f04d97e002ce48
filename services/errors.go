package services

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id is not in the cache.
// Callers list sessions first; the cache is not filled implicitly.
var ErrSessionNotFound = errors.New("session not found")

// SessionError carries the operation and session id for a failed lookup.
type SessionError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

func notFound(op, sessionID string) error {
	return &SessionError{Op: op, SessionID: sessionID, Err: ErrSessionNotFound}
}
