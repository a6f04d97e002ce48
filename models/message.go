package models

import (
	"time"

	"github.com/google/uuid"
)

const MessageType = "Message"

// Sender identifies who produced a message.
type Sender string

const (
	SenderHuman Sender = "Human"
	SenderBot   Sender = "Bot"
)

// Message is one turn of a conversation.
// Collection: messages
// A message is immutable once Tokens is final; the prompt message is replaced by
// WithTokens after the completion call reports its token count.
type Message struct {
	ID        string    `bson:"id" json:"id"`
	Type      string    `bson:"type" json:"type"`
	SessionID string    `bson:"session_id" json:"session_id"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Sender    Sender    `bson:"sender" json:"sender"`
	Tokens    int       `bson:"tokens" json:"tokens"`
	Text      string    `bson:"text" json:"text"`
}

func NewMessage(sessionID string, sender Sender, tokens int, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Type:      MessageType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Sender:    sender,
		Tokens:    tokens,
		Text:      text,
	}
}

// WithTokens returns a copy of m carrying the given token count.
func (m Message) WithTokens(tokens int) Message {
	m.Tokens = tokens
	return m
}

// String renders the message as a conversation line, e.g. "Human: hello".
func (m Message) String() string {
	return string(m.Sender) + ": " + m.Text
}
