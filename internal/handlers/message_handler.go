package handlers

import (
	"net/http"

	"github.com/3w-social/backend/internal/services"
	"github.com/3w-social/backend/internal/upload"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler handles direct messaging HTTP requests
type MessageHandler struct {
	conversations *services.ConversationService
	uploads       *upload.Saver
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(conversations *services.ConversationService, uploads *upload.Saver) *MessageHandler {
	return &MessageHandler{conversations: conversations, uploads: uploads}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/messages/conversations", h.GetConversations)
	g.GET("/messages/:userId", h.GetThread)
	g.POST("/messages", h.SendMessage)
	g.DELETE("/messages/conversation/:userId", h.ClearConversation)
	g.DELETE("/messages/:messageId", h.DeleteMessage)
}

// GetConversations returns the inbox view, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	conversations, err := h.conversations.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conversations)
}

// GetThread returns the conversation with another user, oldest first, and
// marks their messages as read
func (h *MessageHandler) GetThread(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	otherID, err := pathObjectID(c, "userId")
	if err != nil {
		return err
	}

	messages, err := h.conversations.Thread(c.Request().Context(), userID, otherID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// SendMessage sends a message from a multipart form: recipientId plus
// optional text, media file, explicit mediaType (stickers) and replyToId
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	recipientID, err := primitive.ObjectIDFromHex(c.FormValue("recipientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipientId")
	}

	params := services.SendParams{
		Text:      c.FormValue("text"),
		MediaType: c.FormValue("mediaType"),
	}

	if replyTo := c.FormValue("replyToId"); replyTo != "" {
		if params.ReplyTo, err = primitive.ObjectIDFromHex(replyTo); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid replyToId")
		}
	}

	if fh, err := c.FormFile("media"); err == nil {
		// Messages accept any file type, unlike posts and stories.
		res, err := h.uploads.Save(fh, "msg", false)
		if err != nil {
			return httpError(err)
		}
		params.MediaURL = res.URL
		params.OriginalName = res.OriginalName
		if params.MediaType == "" {
			params.MediaType = res.MediaType
		}
	}

	message, err := h.conversations.Send(c.Request().Context(), userID, recipientID, params)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, message)
}

// DeleteMessage removes one of the caller's own messages
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	messageID, err := pathObjectID(c, "messageId")
	if err != nil {
		return err
	}

	if err := h.conversations.DeleteMessage(c.Request().Context(), userID, messageID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message deleted successfully"})
}

// ClearConversation deletes the whole thread with another user
func (h *MessageHandler) ClearConversation(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	otherID, err := pathObjectID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.conversations.ClearConversation(c.Request().Context(), userID, otherID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Conversation cleared successfully"})
}
