package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat-session/db"
	"chat-session/models"
)

type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(d *mongo.Database) *SessionRepository {
	return &SessionRepository{col: d.Collection(db.CollectionSessions)}
}

// List returns every session ordered by creation time.
// Each returned session carries an empty (unloaded) message cache.
func (r *SessionRepository) List(ctx context.Context) ([]models.Session, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := r.col.Find(ctx, bson.M{"type": models.SessionType}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Session{}
	for cur.Next(ctx) {
		var s models.Session
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		s.Messages = []models.Message{}
		results = append(results, s)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Insert inserts a new session document.
func (r *SessionRepository) Insert(ctx context.Context, s models.Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, s)
	return err
}

// Replace overwrites the stored session record identified by s.ID.
func (r *SessionRepository) Replace(ctx context.Context, s models.Session) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.col.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	return err
}

// Delete removes the session document only.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"id": sessionID})
	return err
}
