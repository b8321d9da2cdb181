package repository

import (
	"context"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoWebhookArchiveRepository implements WebhookArchiveRepository
type MongoWebhookArchiveRepository struct {
	collection *mongo.Collection
}

// NewMongoWebhookArchiveRepository creates a new webhook archive repository
func NewMongoWebhookArchiveRepository(db *mongo.Database) repository.WebhookArchiveRepository {
	collection := db.Collection("webhook_deliveries")

	// Index on alertId for per-flight audit queries
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.M{"alertId": 1},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoWebhookArchiveRepository{
		collection: collection,
	}
}

// Save appends one raw delivery to the archive
func (r *MongoWebhookArchiveRepository) Save(ctx context.Context, delivery *entity.WebhookDelivery) error {
	if delivery.ID == "" {
		delivery.ID = primitive.NewObjectID().Hex()
	}
	if delivery.ReceivedAt.IsZero() {
		delivery.ReceivedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, delivery)
	return err
}
