package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	GetBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, sender, recipient primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteBetween(ctx context.Context, a, b primitive.ObjectID) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

func betweenFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}
}

// Create inserts a new message document
func (r *MongoMessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetByID retrieves a message by ObjectID
func (r *MongoMessageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var message models.Message
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: message", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &message, nil
}

// GetBetween retrieves the thread between two users, oldest first
func (r *MongoMessageRepository) GetBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, betweenFilter(a, b), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetAllForUser retrieves every message the user sent or received, newest
// first. The conversation aggregator scans this list.
func (r *MongoMessageRepository) GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userID},
		bson.M{"recipient": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead flips read on every unread message from sender to
// recipient
func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, sender, recipient primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"sender": sender, "recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

// Delete removes a message by ObjectID
func (r *MongoMessageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: message", apperr.ErrNotFound)
	}
	return nil
}

// DeleteBetween clears the whole thread between two users
func (r *MongoMessageRepository) DeleteBetween(ctx context.Context, a, b primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, betweenFilter(a, b))
	return err
}
