package repositories

import (
	"context"
	"sync"

	"chat-session/models"
)

// MemoryChatStore is a process-local persistence gateway.
// It backs `store.backend: memory`, the CLI demo mode and tests.
type MemoryChatStore struct {
	mu       sync.Mutex
	order    []string
	sessions map[string]models.Session
	messages map[string][]models.Message
}

func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		sessions: map[string]models.Session{},
		messages: map[string][]models.Message{},
	}
}

func (s *MemoryChatStore) ListSessions(ctx context.Context) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Session, 0, len(s.order))
	for _, id := range s.order {
		session := s.sessions[id]
		session.Messages = []models.Message{}
		out = append(out, session)
	}
	return out, nil
}

func (s *MemoryChatStore) GetSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.messages[sessionID]))
	copy(out, s.messages[sessionID])
	return out, nil
}

func (s *MemoryChatStore) InsertSession(ctx context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		s.order = append(s.order, session.ID)
	}
	session.Messages = nil
	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryChatStore) UpdateSession(ctx context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return nil
	}
	session.Messages = nil
	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryChatStore) DeleteSessionAndMessages(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryChatStore) InsertMessage(ctx context.Context, message models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return message, nil
}

func (s *MemoryChatStore) UpsertMessagesBatch(ctx context.Context, prompt, response models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(prompt)
	s.upsertLocked(response)
	return nil
}

func (s *MemoryChatStore) upsertLocked(m models.Message) {
	history := s.messages[m.SessionID]
	for i := range history {
		if history[i].ID == m.ID {
			history[i] = m
			return
		}
	}
	s.messages[m.SessionID] = append(history, m)
}
