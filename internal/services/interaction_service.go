package services

import (
	"context"
	"fmt"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionService owns post content and the interactions on it: likes on
// posts, comments and replies, single-level comment threading, pinning and
// saved posts. Likes are keyed by username, so a later rename leaves the old
// attribution in place; display identity is resolved at write time only.
type InteractionService struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	fanout *NotificationService
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, fanout *NotificationService) *InteractionService {
	return &InteractionService{posts: postRepo, users: userRepo, fanout: fanout}
}

// CreatePost publishes a post. A post needs text or media; title alone is not
// enough.
func (s *InteractionService) CreatePost(ctx context.Context, actorID primitive.ObjectID, actorUsername, title, text, mediaURL, mediaType string) (*models.Post, error) {
	if text == "" && mediaURL == "" {
		return nil, fmt.Errorf("%w: post cannot be empty, add text or media", apperr.ErrInvalidInput)
	}

	post := &models.Post{
		UserID:    actorID,
		Username:  actorUsername,
		Title:     title,
		Text:      text,
		MediaURL:  mediaURL,
		MediaType: mediaType,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits title and text. Media is immutable after publish; only the
// owner may edit.
func (s *InteractionService) UpdatePost(ctx context.Context, actorID, postID primitive.ObjectID, title, text string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, fmt.Errorf("%w: only the owner can edit a post", apperr.ErrUnauthorized)
	}

	if title != "" {
		post.Title = title
	}
	if text != "" {
		post.Text = text
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost destroys a post. Owner only.
func (s *InteractionService) DeletePost(ctx context.Context, actorID, postID primitive.ObjectID) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return fmt.Errorf("%w: only the owner can delete a post", apperr.ErrUnauthorized)
	}
	return s.posts.Delete(ctx, postID)
}

// ToggleLikePost toggles the actor's username in the post's likes set. The
// none -> liked transition fans out a LIKE notification to the post owner.
func (s *InteractionService) ToggleLikePost(ctx context.Context, actorID primitive.ObjectID, actorUsername string, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	likes, liked := models.ToggleLike(post.Likes, actorUsername)
	post.Likes = likes
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	if liked {
		if err := s.fanout.Emit(ctx, post.UserID, actorID, models.NotificationLike, post.ID); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// ToggleLikeComment toggles a like on a comment, or on one of its replies
// when replyID is not NilObjectID. The none -> liked transition notifies the
// comment or reply owner.
func (s *InteractionService) ToggleLikeComment(ctx context.Context, actorID primitive.ObjectID, actorUsername string, postID, commentID, replyID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return nil, fmt.Errorf("%w: comment", apperr.ErrNotFound)
	}

	var owner primitive.ObjectID
	var liked bool
	if replyID != primitive.NilObjectID {
		reply := comment.FindReply(replyID)
		if reply == nil {
			return nil, fmt.Errorf("%w: reply", apperr.ErrNotFound)
		}
		reply.Likes, liked = models.ToggleLike(reply.Likes, actorUsername)
		owner = reply.UserID
	} else {
		comment.Likes, liked = models.ToggleLike(comment.Likes, actorUsername)
		owner = comment.UserID
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	if liked {
		if err := s.fanout.Emit(ctx, owner, actorID, models.NotificationLike, post.ID); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// AddComment appends a top-level comment, or a reply when parentCommentID is
// not NilObjectID. Replies nest a single level; a reply can never be replied
// to. Fans out COMMENT to the post owner or REPLY to the comment owner.
func (s *InteractionService) AddComment(ctx context.Context, actorID primitive.ObjectID, actorUsername string, postID primitive.ObjectID, text string, parentCommentID primitive.ObjectID) (*models.Post, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", apperr.ErrInvalidInput)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var notifyOwner primitive.ObjectID
	var notifyType string
	now := timeNow()

	if parentCommentID != primitive.NilObjectID {
		parent := post.FindComment(parentCommentID)
		if parent == nil {
			return nil, fmt.Errorf("%w: comment", apperr.ErrNotFound)
		}
		parent.Replies = append(parent.Replies, models.Reply{
			ID:        primitive.NewObjectID(),
			UserID:    actorID,
			Username:  actorUsername,
			Text:      text,
			Likes:     []string{},
			CreatedAt: now,
		})
		notifyOwner = parent.UserID
		notifyType = models.NotificationReply
	} else {
		post.Comments = append(post.Comments, models.Comment{
			ID:        primitive.NewObjectID(),
			UserID:    actorID,
			Username:  actorUsername,
			Text:      text,
			Likes:     []string{},
			Replies:   []models.Reply{},
			CreatedAt: now,
		})
		notifyOwner = post.UserID
		notifyType = models.NotificationComment
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	if err := s.fanout.Emit(ctx, notifyOwner, actorID, notifyType, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteComment removes a comment, or a reply when replyID is not
// NilObjectID. The comment/reply owner may delete their own; the post owner
// may delete anything on their post.
func (s *InteractionService) DeleteComment(ctx context.Context, actorID, postID, commentID, replyID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return nil, fmt.Errorf("%w: comment", apperr.ErrNotFound)
	}

	if replyID != primitive.NilObjectID {
		reply := comment.FindReply(replyID)
		if reply == nil {
			return nil, fmt.Errorf("%w: reply", apperr.ErrNotFound)
		}
		if reply.UserID != actorID && post.UserID != actorID {
			return nil, fmt.Errorf("%w: cannot delete this reply", apperr.ErrUnauthorized)
		}
		kept := make([]models.Reply, 0, len(comment.Replies))
		for _, r := range comment.Replies {
			if r.ID != replyID {
				kept = append(kept, r)
			}
		}
		comment.Replies = kept
	} else {
		if comment.UserID != actorID && post.UserID != actorID {
			return nil, fmt.Errorf("%w: cannot delete this comment", apperr.ErrUnauthorized)
		}
		kept := make([]models.Comment, 0, len(post.Comments))
		for _, c := range post.Comments {
			if c.ID != commentID {
				kept = append(kept, c)
			}
		}
		post.Comments = kept
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// PinComment toggles pin on the named comment and clears pin on every other
// comment of the post in the same save, so at most one comment is pinned at
// any time. Post owner only.
func (s *InteractionService) PinComment(ctx context.Context, actorID, postID, commentID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, fmt.Errorf("%w: only the post owner can pin comments", apperr.ErrUnauthorized)
	}

	target := post.FindComment(commentID)
	if target == nil {
		return nil, fmt.Errorf("%w: comment", apperr.ErrNotFound)
	}

	pin := !target.IsPinned
	for i := range post.Comments {
		post.Comments[i].IsPinned = false
	}
	target.IsPinned = pin

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleSavePost toggles the post in the user's saved set. Returns whether
// the post is saved after the call.
func (s *InteractionService) ToggleSavePost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	saved := !models.ContainsID(user.SavedPosts, postID)
	if saved {
		user.SavedPosts = append(user.SavedPosts, postID)
	} else {
		user.SavedPosts = models.RemoveID(user.SavedPosts, postID)
	}
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}
	return saved, nil
}

// Feed returns every post, newest first.
func (s *InteractionService) Feed(ctx context.Context) ([]models.Post, error) {
	return s.posts.GetAll(ctx)
}

// PostsBy returns a user's posts, newest first.
func (s *InteractionService) PostsBy(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	return s.posts.GetByUserID(ctx, userID)
}
