package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"chat-session/models"
)

// ChatStore is the Mongo-backed persistence gateway for sessions and messages.
type ChatStore struct {
	client   *mongo.Client
	sessions *SessionRepository
	messages *MessageRepository

	// runInTransaction is nil when transactions are off; the pair upsert is then an
	// ordered bulk write and a failure on the reply leaves the patched prompt stored.
	runInTransaction func(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewChatStore builds the gateway on d. When useTransactions is set, the session
// cascade delete and the message pair upsert run inside a multi-document transaction
// (replica set deployments only).
func NewChatStore(d *mongo.Database, useTransactions bool) *ChatStore {
	s := &ChatStore{
		client:   d.Client(),
		sessions: NewSessionRepository(d),
		messages: NewMessageRepository(d),
	}
	if useTransactions {
		s.runInTransaction = s.mongoTransaction
	}
	return s
}

// Atomic reports whether the message pair upsert and the cascade delete run in a transaction.
func (s *ChatStore) Atomic() bool {
	return s.runInTransaction != nil
}

func (s *ChatStore) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.sessions.List(ctx)
}

func (s *ChatStore) GetSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	return s.messages.ListBySession(ctx, sessionID)
}

func (s *ChatStore) InsertSession(ctx context.Context, session models.Session) error {
	return s.sessions.Insert(ctx, session)
}

func (s *ChatStore) UpdateSession(ctx context.Context, session models.Session) error {
	return s.sessions.Replace(ctx, session)
}

// DeleteSessionAndMessages removes the session and its whole history.
// Messages go first so a failure never leaves orphaned history behind a deleted session.
func (s *ChatStore) DeleteSessionAndMessages(ctx context.Context, sessionID string) error {
	return s.inTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.messages.DeleteBySession(ctx, sessionID); err != nil {
			return err
		}
		return s.sessions.Delete(ctx, sessionID)
	})
}

func (s *ChatStore) InsertMessage(ctx context.Context, message models.Message) (models.Message, error) {
	return s.messages.Insert(ctx, message)
}

func (s *ChatStore) UpsertMessagesBatch(ctx context.Context, prompt, response models.Message) error {
	return s.inTransaction(ctx, func(ctx context.Context) error {
		return s.messages.UpsertBatch(ctx, prompt, response)
	})
}

func (s *ChatStore) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.runInTransaction == nil {
		return fn(ctx)
	}
	return s.runInTransaction(ctx, fn)
}

func (s *ChatStore) mongoTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
