package services

import (
	"context"
	"fmt"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipService drives the bidirectional connection state machine:
// none -> requested -> connected. Every transition touches two user
// documents with two independent writes and no cross-document transaction;
// a crash between them leaves an asymmetric pair that only a subsequent
// corrective call reconciles.
type FriendshipService struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	fanout        *NotificationService
}

// NewFriendshipService creates a new FriendshipService
func NewFriendshipService(userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository, fanout *NotificationService) *FriendshipService {
	return &FriendshipService{users: userRepo, notifications: notifRepo, fanout: fanout}
}

// SendRequest moves the pair from none to requested. Fans out FRIEND_REQUEST
// to the target.
func (s *FriendshipService) SendRequest(ctx context.Context, senderID, targetID primitive.ObjectID) error {
	if senderID == targetID {
		return fmt.Errorf("%w: cannot send a request to yourself", apperr.ErrInvalidInput)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return err
	}

	if sender.HasFriend(targetID) {
		return fmt.Errorf("%w: already connected", apperr.ErrConflict)
	}
	if models.ContainsID(sender.FriendRequestsSent, targetID) {
		return fmt.Errorf("%w: request already sent", apperr.ErrConflict)
	}
	if models.ContainsID(sender.FriendRequestsReceived, targetID) {
		return fmt.Errorf("%w: this user already sent you a request", apperr.ErrConflict)
	}

	sender.FriendRequestsSent = append(sender.FriendRequestsSent, targetID)
	if err := s.users.Save(ctx, sender); err != nil {
		return err
	}

	target.FriendRequestsReceived = append(target.FriendRequestsReceived, senderID)
	if err := s.users.Save(ctx, target); err != nil {
		return err
	}

	return s.fanout.Emit(ctx, targetID, senderID, models.NotificationFriendRequest, primitive.NilObjectID)
}

// CancelRequest withdraws a pending request, moving the pair back to none.
// The pending FRIEND_REQUEST notification is deleted best-effort.
func (s *FriendshipService) CancelRequest(ctx context.Context, senderID, targetID primitive.ObjectID) error {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return err
	}

	sender.FriendRequestsSent = models.RemoveID(sender.FriendRequestsSent, targetID)
	if err := s.users.Save(ctx, sender); err != nil {
		return err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		// The sender side is already cleared; the pair resolves to none.
		return nil
	}
	target.FriendRequestsReceived = models.RemoveID(target.FriendRequestsReceived, senderID)
	if err := s.users.Save(ctx, target); err != nil {
		return err
	}

	// Best-effort cleanup of the pending notification.
	_ = s.notifications.DeleteByEvent(ctx, senderID, targetID, models.NotificationFriendRequest)
	return nil
}

// Accept completes a pending request: userID accepts the request senderID
// sent earlier. Both users gain a friends entry, pending bookkeeping clears
// on both sides, and FRIEND_ACCEPT fans out to the original sender.
func (s *FriendshipService) Accept(ctx context.Context, userID, senderID primitive.ObjectID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return err
	}

	if !models.ContainsID(user.FriendRequestsReceived, senderID) {
		return fmt.Errorf("%w: no pending request from this user", apperr.ErrConflict)
	}

	user.Friends = append(user.Friends, senderID)
	user.FriendRequestsReceived = models.RemoveID(user.FriendRequestsReceived, senderID)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	sender.Friends = append(sender.Friends, userID)
	sender.FriendRequestsSent = models.RemoveID(sender.FriendRequestsSent, userID)
	if err := s.users.Save(ctx, sender); err != nil {
		return err
	}

	return s.fanout.Emit(ctx, senderID, userID, models.NotificationFriendAccept, primitive.NilObjectID)
}

// Reject declines a pending request, returning the pair to none. The sender
// side is cleared best-effort.
func (s *FriendshipService) Reject(ctx context.Context, userID, senderID primitive.ObjectID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.FriendRequestsReceived = models.RemoveID(user.FriendRequestsReceived, senderID)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil
	}
	sender.FriendRequestsSent = models.RemoveID(sender.FriendRequestsSent, userID)
	return s.users.Save(ctx, sender)
}

// RemoveFriend disconnects two users. Symmetric removal, no notification.
func (s *FriendshipService) RemoveFriend(ctx context.Context, userID, targetID primitive.ObjectID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Friends = models.RemoveID(user.Friends, targetID)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil
	}
	target.Friends = models.RemoveID(target.Friends, userID)
	return s.users.Save(ctx, target)
}

// Friends resolves the user's friend list to compact user records.
func (s *FriendshipService) Friends(ctx context.Context, userID primitive.ObjectID) ([]models.UserCompact, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.users.GetByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserCompact, 0, len(friends))
	for i := range friends {
		out = append(out, friends[i].ToCompact())
	}
	return out, nil
}
