package dto

import (
	"time"

	"chat-session/models"
)

// SessionDTO exposes a session without its cached messages.
type SessionDTO struct {
	ID        string    `json:"id" example:"8f0c6a9e-3f0e-4c43-9d0b-1f1f6b0e2c11"`
	Name      string    `json:"name" example:"New Chat"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionDTO(s models.Session) SessionDTO {
	return SessionDTO{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func NewSessionDTOs(items []models.Session) []SessionDTO {
	out := make([]SessionDTO, 0, len(items))
	for _, s := range items {
		out = append(out, NewSessionDTO(s))
	}
	return out
}

// MessageDTO is one conversation turn. Sender is "Human" or "Bot".
type MessageDTO struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender" example:"Human"`
	Tokens    int       `json:"tokens" example:"12"`
	Text      string    `json:"text" example:"What is a goroutine?"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMessageDTO(m models.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		SessionID: m.SessionID,
		Sender:    string(m.Sender),
		Tokens:    m.Tokens,
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
}

func NewMessageDTOs(items []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(items))
	for _, m := range items {
		out = append(out, NewMessageDTO(m))
	}
	return out
}

type RenameSessionRequestDTO struct {
	Name string `json:"name" binding:"required" example:"Travel plans"`
}

type AskRequestDTO struct {
	Prompt string `json:"prompt" binding:"required" example:"What is a goroutine?"`
}

type AskResponseDTO struct {
	Response string `json:"response" example:"A goroutine is a lightweight thread managed by the Go runtime."`
}

type SummarizeNameRequestDTO struct {
	Prompt string `json:"prompt" binding:"required" example:"How do I plan a trip to Busan?"`
}

type SummarizeNameResponseDTO struct {
	Name string `json:"name" example:"Busan Trip"`
}
