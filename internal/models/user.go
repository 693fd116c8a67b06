package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account aggregate stored in MongoDB. Friend state and stories
// are embedded so every mutation is a single document write.
type User struct {
	ID                     primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Username               string               `json:"username" bson:"username"`
	Email                  string               `json:"email" bson:"email"`
	Password               string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	Friends                []primitive.ObjectID `json:"friends" bson:"friends"`
	FriendRequestsSent     []primitive.ObjectID `json:"friendRequestsSent" bson:"friendRequestsSent"`
	FriendRequestsReceived []primitive.ObjectID `json:"friendRequestsReceived" bson:"friendRequestsReceived"`
	Stories                []Story              `json:"stories" bson:"stories"`
	SavedPosts             []primitive.ObjectID `json:"savedPosts" bson:"savedPosts"`
	CreatedAt              time.Time            `json:"createdAt" bson:"createdAt"`
}

// UserCompact is the minimal user shape embedded in enriched responses.
type UserCompact struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Email    string             `json:"email,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Email: u.Email}
}

// HasFriend reports whether id is in the user's friends set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	return ContainsID(u.Friends, id)
}

// ContainsID reports whether id appears in ids.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID returns ids without id. Safe when id is absent.
func RemoveID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
