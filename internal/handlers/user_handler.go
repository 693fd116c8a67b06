package handlers

import (
	"net/http"
	"strings"

	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"github.com/3w-social/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles user discovery, profiles and the connection graph
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	friendships    *services.FriendshipService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, friendships *services.FriendshipService) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		friendships:    friendships,
	}
}

// RegisterUserRoutes registers user and connection routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetAllUsers)
	g.GET("/users/friends", h.GetFriends)
	g.GET("/users/me", h.GetMe)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/profile/:username", h.GetProfile)
	g.GET("/users/:id", h.GetUserByID)
	g.POST("/users/request/:id", h.SendRequest)
	g.DELETE("/users/request/:id", h.CancelRequest)
	g.PUT("/users/accept/:id", h.AcceptRequest)
	g.PUT("/users/reject/:id", h.RejectRequest)
	g.DELETE("/users/remove/:id", h.RemoveFriend)
}

// GetAllUsers returns every other user, for the discover-people view
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	users, err := h.userRepository.GetAllExcept(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// MeResponse carries the current user with resolved friend and request lists.
type MeResponse struct {
	models.User
	FriendsResolved  []models.UserCompact `json:"friendsResolved"`
	ReceivedResolved []models.UserCompact `json:"friendRequestsReceivedResolved"`
	SentResolved     []models.UserCompact `json:"friendRequestsSentResolved"`
}

// GetMe returns the current user's profile with populated relations
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetByID(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	resp := MeResponse{User: *user}
	if resp.FriendsResolved, err = h.resolve(c, user.Friends); err != nil {
		return httpError(err)
	}
	if resp.ReceivedResolved, err = h.resolve(c, user.FriendRequestsReceived); err != nil {
		return httpError(err)
	}
	if resp.SentResolved, err = h.resolve(c, user.FriendRequestsSent); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) resolve(c echo.Context, ids []primitive.ObjectID) ([]models.UserCompact, error) {
	users, err := h.userRepository.GetByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out, nil
}

// GetUserByID returns a user by id, for chat initialization
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"_id":       user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
		"friends":   user.Friends,
	})
}

// GetProfile returns a public profile by username together with the user's
// posts
func (h *UserHandler) GetProfile(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetByUsername(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}

	posts, err := h.postRepository.GetByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"_id":          user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"friendsCount": len(user.Friends),
			"createdAt":    user.CreatedAt,
		},
		"posts": posts,
	})
}

// SearchUsers finds users by a case-insensitive username fragment
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	users, err := h.userRepository.SearchByUsername(c.Request().Context(), query, 20)
	if err != nil {
		return httpError(err)
	}

	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return c.JSON(http.StatusOK, out)
}

// SendRequest sends a connection request to the user in the path
func (h *UserHandler) SendRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendships.SendRequest(c.Request().Context(), userID, targetID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection request sent"})
}

// CancelRequest withdraws a pending connection request
func (h *UserHandler) CancelRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendships.CancelRequest(c.Request().Context(), userID, targetID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Request cancelled"})
}

// AcceptRequest accepts a pending connection request from the user in the
// path
func (h *UserHandler) AcceptRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	senderID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendships.Accept(c.Request().Context(), userID, senderID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection accepted"})
}

// RejectRequest declines a pending connection request
func (h *UserHandler) RejectRequest(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	senderID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendships.Reject(c.Request().Context(), userID, senderID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection rejected"})
}

// RemoveFriend disconnects from the user in the path
func (h *UserHandler) RemoveFriend(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendships.RemoveFriend(c.Request().Context(), userID, targetID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection removed"})
}

// GetFriends returns the current user's resolved friend list
func (h *UserHandler) GetFriends(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	friends, err := h.friendships.Friends(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, friends)
}
