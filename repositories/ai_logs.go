package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"chat-session/db"
	"chat-session/models"
)

type AILogRepository struct {
	col *mongo.Collection
}

func NewAILogRepository(d *mongo.Database) *AILogRepository {
	return &AILogRepository{col: d.Collection(db.CollectionAILogs)}
}

func (r *AILogRepository) Insert(ctx context.Context, log models.AILog) (*mongo.InsertOneResult, error) {
	if log.RequestedAt.IsZero() {
		log.RequestedAt = time.Now()
	}
	return r.col.InsertOne(ctx, log)
}

// Record stores a usage log and drops the insert result.
func (r *AILogRepository) Record(ctx context.Context, log models.AILog) error {
	_, err := r.Insert(ctx, log)
	return err
}
