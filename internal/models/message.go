package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two users. Deletion rights belong to
// the sender only.
type Message struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Sender       primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient    primitive.ObjectID `json:"recipient" bson:"recipient"`
	Text         string             `json:"text,omitempty" bson:"text,omitempty"`
	MediaURL     string             `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	MediaType    string             `json:"mediaType,omitempty" bson:"mediaType,omitempty"` // image, video, audio, sticker, document
	OriginalName string             `json:"originalName,omitempty" bson:"originalName,omitempty"`
	ReplyTo      primitive.ObjectID `json:"replyTo,omitempty" bson:"replyTo,omitempty"` // one level, never chased further
	Read         bool               `json:"read" bson:"read"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// Counterparty returns the other participant of the message relative to userID.
func (m *Message) Counterparty(userID primitive.ObjectID) primitive.ObjectID {
	if m.Sender == userID {
		return m.Recipient
	}
	return m.Sender
}

// ConversationSummary is one inbox row of the conversation list.
type ConversationSummary struct {
	UserID          primitive.ObjectID `json:"_id"`
	Username        string             `json:"username"`
	LastMessage     string             `json:"lastMessage"`
	LastMessageTime time.Time          `json:"lastMessageTime"`
	Unread          bool               `json:"unread"`
}
