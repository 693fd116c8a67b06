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

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByEvent(ctx context.Context, sender, recipient primitive.ObjectID, notifType string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Create inserts a new notification document
func (r *MongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetByID retrieves a notification by ObjectID
func (r *MongoNotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: notification", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &notification, nil
}

// GetByRecipient retrieves a user's notifications, newest first
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAllRead flips read on every unread notification of the recipient
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

// Delete removes a notification by ObjectID
func (r *MongoNotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: notification", apperr.ErrNotFound)
	}
	return nil
}

// DeleteByEvent removes one notification matching sender, recipient and type.
// Used for best-effort cleanup when a friend request is cancelled.
func (r *MongoNotificationRepository) DeleteByEvent(ctx context.Context, sender, recipient primitive.ObjectID, notifType string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{
		"sender":    sender,
		"recipient": recipient,
		"type":      notifType,
	})
	return err
}
