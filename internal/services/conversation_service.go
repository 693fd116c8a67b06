package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/3w-social/backend/internal/apperr"
	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationService handles direct messaging and derives the per-user
// inbox view by merging the friend list with message history.
type ConversationService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
}

// NewConversationService creates a new ConversationService
func NewConversationService(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *ConversationService {
	return &ConversationService{messages: messageRepo, users: userRepo}
}

// SendParams carries the optional parts of an outgoing message.
type SendParams struct {
	Text         string
	MediaURL     string
	MediaType    string
	OriginalName string
	ReplyTo      primitive.ObjectID
}

// Send stores a new message. Stickers arrive without a file, so an explicit
// sticker media type is enough to carry an otherwise empty message.
func (s *ConversationService) Send(ctx context.Context, senderID, recipientID primitive.ObjectID, p SendParams) (*models.Message, error) {
	if p.Text == "" && p.MediaURL == "" && p.MediaType != "sticker" {
		return nil, fmt.Errorf("%w: message cannot be empty", apperr.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	message := &models.Message{
		Sender:       senderID,
		Recipient:    recipientID,
		Text:         p.Text,
		MediaURL:     p.MediaURL,
		MediaType:    p.MediaType,
		OriginalName: p.OriginalName,
		ReplyTo:      p.ReplyTo,
		Read:         false,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Thread returns the full conversation with another user, oldest first, and
// marks the counterparty's messages to the caller as read.
func (s *ConversationService) Thread(ctx context.Context, userID, otherID primitive.ObjectID) ([]models.Message, error) {
	messages, err := s.messages.GetBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkConversationRead(ctx, otherID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}

// ListConversations derives the inbox: one row per counterparty, where
// counterparties are the user's friends plus anyone appearing in their
// message history. Rows sort by last-message time descending; a counterparty
// with no messages yet sorts at the epoch, effectively last.
func (s *ConversationService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ConversationSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	partnerSet := make(map[primitive.ObjectID]struct{})
	for _, id := range user.Friends {
		partnerSet[id] = struct{}{}
	}
	for i := range messages {
		partnerSet[messages[i].Counterparty(userID)] = struct{}{}
	}

	partnerIDs := make([]primitive.ObjectID, 0, len(partnerSet))
	for id := range partnerSet {
		partnerIDs = append(partnerIDs, id)
	}
	partners, err := s.users.GetByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(partners))
	for i := range partners {
		partner := &partners[i]

		// Messages are newest-first, so the first hit is the latest.
		var last *models.Message
		for j := range messages {
			if messages[j].Sender == partner.ID || messages[j].Recipient == partner.ID {
				last = &messages[j]
				break
			}
		}

		summary := models.ConversationSummary{
			UserID:          partner.ID,
			Username:        partner.Username,
			LastMessage:     "Start a conversation",
			LastMessageTime: time.Time{},
		}
		if last != nil {
			summary.LastMessage = previewText(last)
			summary.LastMessageTime = last.CreatedAt
			summary.Unread = last.Recipient == userID && !last.Read
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessageTime.After(summaries[j].LastMessageTime)
	})
	return summaries, nil
}

// previewText derives the human-readable one-liner for the inbox row.
func previewText(m *models.Message) string {
	if m.Text != "" {
		return m.Text
	}
	switch m.MediaType {
	case "image":
		return "📷 Image"
	case "video":
		return "🎥 Video"
	case "sticker":
		return "✨ Sticker"
	case "":
		return ""
	default:
		return "📄 Document"
	}
}

// DeleteMessage removes a single message. Only the sender holds deletion
// rights.
func (s *ConversationService) DeleteMessage(ctx context.Context, actorID, messageID primitive.ObjectID) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.Sender != actorID {
		return fmt.Errorf("%w: only the sender can delete a message", apperr.ErrUnauthorized)
	}
	return s.messages.Delete(ctx, messageID)
}

// ClearConversation deletes the whole thread between the caller and another
// user.
func (s *ConversationService) ClearConversation(ctx context.Context, userID, otherID primitive.ObjectID) error {
	return s.messages.DeleteBetween(ctx, userID, otherID)
}
