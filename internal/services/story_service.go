package services

import (
	"context"
	"fmt"
	"time"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryService manages the ephemeral story lifecycle: append, read with lazy
// expiry, explicit sweep, delete and like-toggle. Expiry uses a single
// predicate (elapsed >= 24h) applied on every read path and by the scheduled
// sweep, so the two paths can race safely.
type StoryService struct {
	users  repositories.UserRepository
	fanout *NotificationService
	now    func() time.Time
}

// NewStoryService creates a new StoryService
func NewStoryService(userRepo repositories.UserRepository, fanout *NotificationService) *StoryService {
	return &StoryService{users: userRepo, fanout: fanout, now: time.Now}
}

// Add appends a story to the owner's document with createdAt = now.
func (s *StoryService) Add(ctx context.Context, ownerID primitive.ObjectID, mediaURL, mediaType, overlayText string) (*models.Story, error) {
	if mediaURL == "" {
		return nil, fmt.Errorf("%w: media is required for stories", apperr.ErrInvalidInput)
	}
	if mediaType != "image" && mediaType != "video" {
		return nil, fmt.Errorf("%w: media type must be image or video", apperr.ErrInvalidInput)
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	story := models.Story{
		ID:          primitive.NewObjectID(),
		MediaURL:    mediaURL,
		MediaType:   mediaType,
		OverlayText: overlayText,
		Likes:       []string{},
		CreatedAt:   s.now(),
	}
	owner.Stories = append(owner.Stories, story)
	if err := s.users.Save(ctx, owner); err != nil {
		return nil, err
	}
	return &story, nil
}

// ListFor returns the story tray for a viewer: one group per member of the
// viewer's circle (friends plus the viewer) that still has a live story.
// Before resolving, it runs the global lazy-expiry pass across all users.
func (s *StoryService) ListFor(ctx context.Context, viewerID primitive.ObjectID) ([]models.StoryGroup, error) {
	now := s.now()

	// Keeps the database clean even without the scheduled sweep.
	if err := s.users.PullExpiredStories(ctx, now.Add(-models.StoryTTL)); err != nil {
		return nil, err
	}

	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	circle := append(append([]primitive.ObjectID{}, viewer.Friends...), viewerID)
	members, err := s.users.GetByIDs(ctx, circle)
	if err != nil {
		return nil, err
	}

	groups := make([]models.StoryGroup, 0, len(members))
	for _, member := range members {
		// Redundant with the sweep above, but the boundary check must hold
		// even for stories written after the sweep's cutoff was computed.
		active := make([]models.Story, 0, len(member.Stories))
		for _, story := range member.Stories {
			if !story.Expired(now) {
				active = append(active, story)
			}
		}
		if len(active) > 0 {
			groups = append(groups, models.StoryGroup{
				UserID:   member.ID,
				Username: member.Username,
				Stories:  active,
			})
		}
	}
	return groups, nil
}

// ExpireNow deletes every expired story across all users. Exposed for
// external scheduling; idempotent and commutative, so concurrent calls and
// races with ListFor are safe.
func (s *StoryService) ExpireNow(ctx context.Context) error {
	return s.users.PullExpiredStories(ctx, s.now().Add(-models.StoryTTL))
}

// Delete removes a story from the owner's document. Removal is unconditional
// for any id the owner's array contains; a missing id is a no-op.
func (s *StoryService) Delete(ctx context.Context, ownerID, storyID primitive.ObjectID) error {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	kept := make([]models.Story, 0, len(owner.Stories))
	for _, story := range owner.Stories {
		if story.ID != storyID {
			kept = append(kept, story)
		}
	}
	owner.Stories = kept
	return s.users.Save(ctx, owner)
}

// ToggleLike toggles the actor's username in a story's likes set. The
// none -> liked transition fans out a LIKE notification to the story owner.
func (s *StoryService) ToggleLike(ctx context.Context, actorID primitive.ObjectID, actorUsername string, targetUserID, storyID primitive.ObjectID) (*models.Story, error) {
	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	var story *models.Story
	for i := range target.Stories {
		if target.Stories[i].ID == storyID {
			story = &target.Stories[i]
			break
		}
	}
	if story == nil {
		return nil, fmt.Errorf("%w: story", apperr.ErrNotFound)
	}

	likes, liked := models.ToggleLike(story.Likes, actorUsername)
	story.Likes = likes
	if err := s.users.Save(ctx, target); err != nil {
		return nil, err
	}

	if liked {
		if err := s.fanout.Emit(ctx, target.ID, actorID, models.NotificationLike, primitive.NilObjectID); err != nil {
			return nil, err
		}
	}
	return story, nil
}
