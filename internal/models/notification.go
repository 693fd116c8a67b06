package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. The set is closed; anything else is rejected at the
// service boundary.
const (
	NotificationLike          = "LIKE"
	NotificationComment       = "COMMENT"
	NotificationReply         = "REPLY"
	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationFriendAccept  = "FRIEND_ACCEPT"
	NotificationCallMissed    = "CALL_MISSED"
	NotificationCallIncoming  = "CALL_INCOMING"
	NotificationCallOutgoing  = "CALL_OUTGOING"
)

// ValidNotificationType reports whether t belongs to the closed type set.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationReply,
		NotificationFriendRequest, NotificationFriendAccept,
		NotificationCallMissed, NotificationCallIncoming, NotificationCallOutgoing:
		return true
	}
	return false
}

// Notification is a side-effect record emitted by the fanout. Only the read
// flag is ever mutated after creation.
type Notification struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Type      string             `json:"type" bson:"type"`
	Post      primitive.ObjectID `json:"post,omitempty" bson:"post,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type CallNotificationRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Missed      bool   `json:"missed,omitempty"`
}
