package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionType        = "Session"
	DefaultSessionName = "New Chat"
)

// Session is a named chat thread.
// Collection: sessions
// Messages is a cache owned by the chat service and is never stored on the session document.
type Session struct {
	ID        string    `bson:"id" json:"id"`
	Type      string    `bson:"type" json:"type"`
	SessionID string    `bson:"session_id" json:"session_id"` // partition key, equal to ID
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	Messages  []Message `bson:"-" json:"-"`
}

// NewSession returns a session with a fresh id and the given display name.
func NewSession(name string) Session {
	id := uuid.NewString()
	now := time.Now().UTC()
	return Session{
		ID:        id,
		Type:      SessionType,
		SessionID: id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}
