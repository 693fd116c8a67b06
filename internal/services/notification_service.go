package services

import (
	"context"
	"fmt"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService is the fanout: it turns qualifying interactions into
// notification records addressed to the counterparty. It never batches and
// never deduplicates; every none -> liked transition produces a fresh record.
type NotificationService struct {
	notifications repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifRepo}
}

// Emit persists one unread notification for the recipient. Self-notifications
// (recipient == sender) are silently skipped. Pass primitive.NilObjectID for
// post when the interaction has no post reference.
func (s *NotificationService) Emit(ctx context.Context, recipient, sender primitive.ObjectID, notifType string, post primitive.ObjectID) error {
	if !models.ValidNotificationType(notifType) {
		return fmt.Errorf("%w: unknown notification type %q", apperr.ErrInvalidInput, notifType)
	}
	if recipient == sender {
		return nil
	}
	return s.notifications.Create(ctx, &models.Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      notifType,
		Post:      post,
		Read:      false,
	})
}

// EmitCall records a call event. A missed call leaves a single CALL_MISSED
// entry for the recipient. A placed call leaves CALL_INCOMING for the
// recipient and CALL_OUTGOING for the caller; the outgoing entry is persisted
// already read so the caller's own call log never shows as unread.
func (s *NotificationService) EmitCall(ctx context.Context, caller, recipient primitive.ObjectID, missed bool) (*models.Notification, error) {
	if caller == recipient {
		return nil, fmt.Errorf("%w: cannot call yourself", apperr.ErrInvalidInput)
	}

	if missed {
		n := &models.Notification{
			Recipient: recipient,
			Sender:    caller,
			Type:      models.NotificationCallMissed,
			Read:      false,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			return nil, err
		}
		return n, nil
	}

	incoming := &models.Notification{
		Recipient: recipient,
		Sender:    caller,
		Type:      models.NotificationCallIncoming,
		Read:      false,
	}
	if err := s.notifications.Create(ctx, incoming); err != nil {
		return nil, err
	}

	outgoing := &models.Notification{
		Recipient: caller,
		Sender:    recipient,
		Type:      models.NotificationCallOutgoing,
		Read:      true,
	}
	if err := s.notifications.Create(ctx, outgoing); err != nil {
		return nil, err
	}
	return outgoing, nil
}

// ListFor returns the recipient's notifications, newest first.
func (s *NotificationService) ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	return s.notifications.GetByRecipient(ctx, recipient)
}

// MarkAllRead flips every unread notification of the recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	return s.notifications.MarkAllRead(ctx, recipient)
}

// Delete removes a single notification. Only the recipient may delete it.
func (s *NotificationService) Delete(ctx context.Context, actorID, notificationID primitive.ObjectID) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.Recipient != actorID {
		return fmt.Errorf("%w: not your notification", apperr.ErrUnauthorized)
	}
	return s.notifications.Delete(ctx, notificationID)
}
