package handlers

import (
	"net/http"

	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"github.com/3w-social/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications  *services.NotificationService
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, userRepo repositories.UserRepository, postRepo repositories.PostRepository) *NotificationHandler {
	return &NotificationHandler{
		notifications:  notifications,
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.POST("/notifications/call", h.CreateCallNotification)
	g.PUT("/notifications/read", h.MarkAllRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// EnrichedNotification carries resolved sender and post previews alongside
// the raw record.
type EnrichedNotification struct {
	models.Notification
	SenderInfo *models.UserCompact `json:"senderInfo,omitempty"`
	PostInfo   *PostPreview        `json:"postInfo,omitempty"`
}

// PostPreview is the slice of a post shown inside a notification row.
type PostPreview struct {
	ID       primitive.ObjectID `json:"_id"`
	Title    string             `json:"title,omitempty"`
	MediaURL string             `json:"mediaUrl,omitempty"`
}

// GetNotifications returns the caller's notifications, newest first, with
// sender and post references resolved
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	notifications, err := h.notifications.ListFor(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	userCache := make(map[primitive.ObjectID]*models.UserCompact)
	postCache := make(map[primitive.ObjectID]*PostPreview)

	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}

		if sender, ok := userCache[n.Sender]; ok {
			enriched[i].SenderInfo = sender
		} else if user, err := h.userRepository.GetByID(c.Request().Context(), n.Sender); err == nil {
			compact := user.ToCompact()
			userCache[n.Sender] = &compact
			enriched[i].SenderInfo = &compact
		}

		if n.Post == primitive.NilObjectID {
			continue
		}
		if preview, ok := postCache[n.Post]; ok {
			enriched[i].PostInfo = preview
		} else if post, err := h.postRepository.GetByID(c.Request().Context(), n.Post); err == nil {
			preview := &PostPreview{ID: post.ID, Title: post.Title, MediaURL: post.MediaURL}
			postCache[n.Post] = preview
			enriched[i].PostInfo = preview
		}
	}

	return c.JSON(http.StatusOK, enriched)
}

// CreateCallNotification records a call event: an incoming/outgoing pair for
// a placed call, or a single missed-call entry
func (h *NotificationHandler) CreateCallNotification(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CallNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid recipientId")
	}

	notification, err := h.notifications.EmitCall(c.Request().Context(), userID, recipientID, req.Missed)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, notification)
}

// MarkAllRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAllRead(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications marked as read"})
}

// DeleteNotification removes one of the caller's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	notificationID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.Request().Context(), userID, notificationID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}
