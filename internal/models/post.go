package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the post aggregate stored in MongoDB. Comments and their replies
// are embedded, one nesting level deep. The author username is denormalized
// at creation time and is not kept in sync with later renames.
type Post struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Username  string             `json:"username" bson:"username"`
	Title     string             `json:"title,omitempty" bson:"title,omitempty"`
	Text      string             `json:"text,omitempty" bson:"text,omitempty"`
	MediaURL  string             `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	MediaType string             `json:"mediaType,omitempty" bson:"mediaType,omitempty"` // "image" or "video"
	Likes     []string           `json:"likes" bson:"likes"`                             // usernames
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Comment is embedded in a post. At most one comment per post carries
// IsPinned == true.
type Comment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Username  string             `json:"username" bson:"username"`
	Text      string             `json:"text" bson:"text"`
	Likes     []string           `json:"likes" bson:"likes"`
	IsPinned  bool               `json:"isPinned" bson:"isPinned"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Reply is embedded in a comment. Replies cannot themselves be replied to.
type Reply struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Username  string             `json:"username" bson:"username"`
	Text      string             `json:"text" bson:"text"`
	Likes     []string           `json:"likes" bson:"likes"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// FindComment returns a pointer into the post's comments slice, or nil.
func (p *Post) FindComment(id primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// FindReply returns a pointer into the comment's replies slice, or nil.
func (c *Comment) FindReply(id primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			return &c.Replies[i]
		}
	}
	return nil
}

// ToggleLike adds username to likes if absent, removes it if present.
// It returns true when the call transitioned none -> liked.
func ToggleLike(likes []string, username string) ([]string, bool) {
	for i, name := range likes {
		if name == username {
			return append(likes[:i], likes[i+1:]...), false
		}
	}
	return append(likes, username), true
}

type UpdatePostRequest struct {
	Title string `json:"title,omitempty" validate:"omitempty,max=120"`
	Text  string `json:"text,omitempty" validate:"omitempty,max=5000"`
}

type AddCommentRequest struct {
	Text            string `json:"text" validate:"required,min=1,max=2000"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

type CommentRefRequest struct {
	CommentID string `json:"commentId" validate:"required"`
	ReplyID   string `json:"replyId,omitempty"`
}
