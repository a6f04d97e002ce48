package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat-session/db"
	"chat-session/models"
)

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(d *mongo.Database) *MessageRepository {
	return &MessageRepository{col: d.Collection(db.CollectionMessages)}
}

// ListBySession returns the ordered history of a session.
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := r.col.Find(ctx, bson.M{"session_id": sessionID, "type": models.MessageType}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Insert inserts a single message and returns the stored record.
func (r *MessageRepository) Insert(ctx context.Context, m models.Message) (models.Message, error) {
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// UpsertBatch replaces-or-inserts every message by id in one ordered bulk write.
func (r *MessageRepository) UpsertBatch(ctx context.Context, messages ...models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(messages))
	for _, m := range messages {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": m.ID}).
			SetReplacement(m).
			SetUpsert(true))
	}
	_, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

// DeleteBySession removes every message of a session and reports how many were deleted.
func (r *MessageRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
