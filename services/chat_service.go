package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"chat-session/completion"
	"chat-session/logger"
	"chat-session/models"
)

// ChatRepository is the persistence gateway for sessions and messages.
type ChatRepository interface {
	ListSessions(ctx context.Context) ([]models.Session, error)
	GetSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error)
	InsertSession(ctx context.Context, session models.Session) error
	UpdateSession(ctx context.Context, session models.Session) error
	DeleteSessionAndMessages(ctx context.Context, sessionID string) error
	InsertMessage(ctx context.Context, message models.Message) (models.Message, error)
	UpsertMessagesBatch(ctx context.Context, prompt, response models.Message) error
}

type cachedSession struct {
	session models.Session
	// loaded is set once Messages holds the complete history, so an empty thread
	// is not fetched again on every read.
	loaded bool
}

// ChatService owns the in-memory session cache and orchestrates the persistence and
// completion gateways. mu guards the cache only and is never held across a gateway
// call; every cache access after a call looks the session up again by id.
type ChatService struct {
	repo      ChatRepository
	completer completion.Completer
	events    *EventService

	maxConversationLength int

	mu       sync.Mutex
	sessions map[string]*cachedSession
	order    []string
}

func NewChatService(repo ChatRepository, completer completion.Completer, events *EventService) *ChatService {
	return &ChatService{
		repo:                  repo,
		completer:             completer,
		events:                events,
		maxConversationLength: completer.MaxTokens() / 2,
		sessions:              map[string]*cachedSession{},
	}
}

// ListSessions reloads the session list from the gateway and replaces the cache.
func (s *ChatService) ListSessions(ctx context.Context) ([]models.Session, error) {
	items, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]*cachedSession, len(items))
	order := make([]string, 0, len(items))
	out := make([]models.Session, 0, len(items))
	for _, item := range items {
		item.Messages = []models.Message{}
		if _, dup := sessions[item.ID]; !dup {
			order = append(order, item.ID)
		}
		sessions[item.ID] = &cachedSession{session: item}
		out = append(out, item)
	}

	s.mu.Lock()
	s.sessions = sessions
	s.order = order
	s.mu.Unlock()

	logger.DebugWithFields("session cache refreshed", logger.Fields{"sessions": len(out)})
	return out, nil
}

// CachedSessions returns the sessions currently held in the cache without a gateway call.
func (s *ChatService) CachedSessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Session, 0, len(s.order))
	for _, id := range s.order {
		session := s.sessions[id].session
		session.Messages = cloneMessages(session.Messages)
		out = append(out, session)
	}
	return out
}

// GetMessages returns the history of a cached session, fetching it from the gateway
// on first access. The returned slice is a copy.
func (s *ChatService) GetMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, notFound("get messages", sessionID)
	}
	if entry.loaded {
		out := cloneMessages(entry.session.Messages)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	messages, err := s.repo.GetSessionMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok = s.sessions[sessionID]
	if !ok {
		return nil, notFound("get messages", sessionID)
	}
	if !entry.loaded {
		if messages == nil {
			messages = []models.Message{}
		}
		entry.session.Messages = messages
		entry.loaded = true
		logger.DebugWithFields("session history loaded", logger.Fields{
			"session_id": sessionID,
			"messages":   len(messages),
		})
	}
	return cloneMessages(entry.session.Messages), nil
}

// CreateSession adds a "New Chat" session to the cache and persists it.
// A failed insert leaves the cache entry in place.
func (s *ChatService) CreateSession(ctx context.Context) (models.Session, error) {
	session := models.NewSession(models.DefaultSessionName)

	s.mu.Lock()
	s.sessions[session.ID] = &cachedSession{session: session, loaded: true}
	s.order = append(s.order, session.ID)
	s.mu.Unlock()

	if err := s.repo.InsertSession(ctx, session); err != nil {
		return models.Session{}, err
	}

	s.events.PublishSessionCreated(ctx, session)
	return session, nil
}

// RenameSession changes the cached name and persists the session record.
func (s *ChatService) RenameSession(ctx context.Context, sessionID, name string) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return notFound("rename session", sessionID)
	}
	entry.session.Name = name
	entry.session.UpdatedAt = time.Now().UTC()
	session := entry.session
	session.Messages = nil
	s.mu.Unlock()

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return err
	}

	s.events.PublishSessionRenamed(ctx, session)
	return nil
}

// DeleteSession drops the session from the cache, then deletes it and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.mu.Unlock()
		return notFound("delete session", sessionID)
	}
	delete(s.sessions, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if err := s.repo.DeleteSessionAndMessages(ctx, sessionID); err != nil {
		return err
	}

	s.events.PublishSessionDeleted(ctx, sessionID)
	return nil
}

// Ask sends prompt with the bounded conversation window to the completion gateway and
// stores both sides of the exchange.
//
// The prompt is persisted with 0 tokens before the call. Once the call reports usage,
// the prompt is replaced in its cache slot with the final token count, the reply is
// appended and both are upserted as one batch.
func (s *ChatService) Ask(ctx context.Context, sessionID, prompt string) (string, error) {
	start := time.Now()

	history, err := s.GetMessages(ctx, sessionID)
	if err != nil {
		return "", err
	}

	promptMessage := models.NewMessage(sessionID, models.SenderHuman, 0, prompt)

	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return "", notFound("ask", sessionID)
	}
	if !entry.loaded {
		// the cache was refreshed after the history load; the gateway history is unchanged
		entry.session.Messages = history
		entry.loaded = true
	}
	history = cloneMessages(entry.session.Messages)
	entry.session.Messages = append(entry.session.Messages, promptMessage)
	s.mu.Unlock()

	if _, err := s.repo.InsertMessage(ctx, promptMessage); err != nil {
		return "", err
	}

	conversation := BuildConversation(history, prompt, s.maxConversationLength)

	result, err := s.completer.Ask(ctx, sessionID, conversation)
	if err != nil {
		return "", err
	}

	promptMessage = promptMessage.WithTokens(result.PromptTokens)
	responseMessage := models.NewMessage(sessionID, models.SenderBot, result.ResponseTokens, result.Text)

	s.mu.Lock()
	entry, ok = s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return "", notFound("ask", sessionID)
	}
	if entry.loaded {
		replaceMessage(entry.session.Messages, promptMessage)
		entry.session.Messages = append(entry.session.Messages, responseMessage)
	}
	s.mu.Unlock()

	if err := s.repo.UpsertMessagesBatch(ctx, promptMessage, responseMessage); err != nil {
		return "", err
	}

	s.events.PublishMessageAnswered(ctx, promptMessage, responseMessage)

	logger.InfoWithFields("prompt answered", logger.Fields{
		"session_id":      sessionID,
		"prompt_tokens":   result.PromptTokens,
		"response_tokens": result.ResponseTokens,
		"window_bytes":    len(conversation),
		"duration_ms":     time.Since(start).Milliseconds(),
	})
	return result.Text, nil
}

// SummarizeSessionName asks the completion gateway for a short label for prompt and
// renames the session to it.
func (s *ChatService) SummarizeSessionName(ctx context.Context, sessionID, prompt string) (string, error) {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return "", notFound("summarize session name", sessionID)
	}

	name, err := s.completer.Summarize(ctx, sessionID, prompt)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)

	if err := s.RenameSession(ctx, sessionID, name); err != nil {
		return "", err
	}
	return name, nil
}

func replaceMessage(messages []models.Message, m models.Message) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].ID == m.ID {
			messages[i] = m
			return
		}
	}
}

func cloneMessages(messages []models.Message) []models.Message {
	out := make([]models.Message, len(messages))
	copy(out, messages)
	return out
}
