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

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetAllExcept(ctx context.Context, id primitive.ObjectID) ([]models.User, error)
	SearchByUsername(ctx context.Context, query string, limit int64) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	PullExpiredStories(ctx context.Context, cutoff time.Time) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// Create inserts a new user document
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequestsSent == nil {
		user.FriendRequestsSent = []primitive.ObjectID{}
	}
	if user.FriendRequestsReceived == nil {
		user.FriendRequestsReceived = []primitive.ObjectID{}
	}
	if user.Stories == nil {
		user.Stories = []models.Story{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: username or email already exists", apperr.ErrConflict)
	}
	return err
}

// GetByID retrieves a user by ObjectID
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs retrieves all users whose ObjectID appears in ids
func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetAllExcept retrieves every user except the given one, for discovery
func (r *MongoUserRepository) GetAllExcept(ctx context.Context, id primitive.ObjectID) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$ne": id}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchByUsername retrieves users whose username contains the query,
// case-insensitive
func (r *MongoUserRepository) SearchByUsername(ctx context.Context, query string, limit int64) ([]models.User, error) {
	filter := bson.M{"username": bson.M{"$regex": query, "$options": "i"}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Save replaces the whole user document. Callers follow the fetch, mutate in
// memory, save pattern; concurrent writers to the same document are
// last-writer-wins.
func (r *MongoUserRepository) Save(ctx context.Context, user *models.User) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	return nil
}

// PullExpiredStories removes, across all users, every embedded story created
// at or before the cutoff. The deletion is idempotent and commutative, so
// concurrent sweeps are safe.
func (r *MongoUserRepository) PullExpiredStories(ctx context.Context, cutoff time.Time) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{}, bson.M{
		"$pull": bson.M{"stories": bson.M{"createdAt": bson.M{"$lte": cutoff}}},
	})
	return err
}

// EnsureUserIndexes creates the unique username and email indexes.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
