package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral media entry embedded in the owner's user document.
// Likes are stored as usernames, matching post and comment likes.
type Story struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	MediaURL    string             `json:"mediaUrl" bson:"mediaUrl"`
	MediaType   string             `json:"mediaType" bson:"mediaType"` // "image" or "video"
	OverlayText string             `json:"overlayText,omitempty" bson:"overlayText,omitempty"`
	Likes       []string           `json:"likes" bson:"likes"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the story has passed its TTL at the given instant.
// The boundary is inclusive: a story exactly StoryTTL old is expired.
func (s *Story) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= StoryTTL
}

// StoryGroup is the per-user entry of the story tray response.
type StoryGroup struct {
	UserID   primitive.ObjectID `json:"userId"`
	Username string             `json:"username"`
	Stories  []Story            `json:"stories"`
}
