package handlers

import (
	"net/http"

	"github.com/3w-social/backend/internal/models"
	"github.com/3w-social/backend/internal/repositories"
	"github.com/3w-social/backend/internal/services"
	"github.com/3w-social/backend/internal/upload"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles post CRUD and the interactions on posts
type PostHandler struct {
	interactions   *services.InteractionService
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	uploads        *upload.Saver
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(interactions *services.InteractionService, userRepo repositories.UserRepository, postRepo repositories.PostRepository, uploads *upload.Saver) *PostHandler {
	return &PostHandler{
		interactions:   interactions,
		userRepository: userRepo,
		postRepository: postRepo,
		uploads:        uploads,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/saved", h.GetSavedPosts)
	g.GET("/posts/user/:id", h.GetUserPosts)
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.PUT("/posts/:id/like", h.LikePost)
	g.POST("/posts/:id/comment", h.AddComment)
	g.PUT("/posts/:id/comment/like", h.LikeComment)
	g.DELETE("/posts/:id/comment", h.DeleteComment)
	g.PUT("/posts/:id/comment/pin", h.PinComment)
	g.PUT("/posts/:id/save", h.ToggleSave)
}

// GetPosts returns the global feed, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.interactions.Feed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetUserPosts returns one user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.interactions.PostsBy(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetSavedPosts returns the current user's saved posts
func (h *PostHandler) GetSavedPosts(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetByID(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	posts, err := h.postRepository.GetByIDs(c.Request().Context(), user.SavedPosts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost publishes a post from a multipart form: optional title and text
// fields plus an optional media file.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	text := c.FormValue("text")

	var mediaURL, mediaType string
	if fh, err := c.FormFile("media"); err == nil {
		res, err := h.uploads.Save(fh, "media", true)
		if err != nil {
			return httpError(err)
		}
		mediaURL = res.URL
		mediaType = res.MediaType
	}

	post, err := h.interactions.CreatePost(c.Request().Context(), userID, currentUsername(c), title, text, mediaURL, mediaType)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost edits title and text of an owned post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.interactions.UpdatePost(c.Request().Context(), userID, postID, req.Title, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost destroys an owned post
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.interactions.DeletePost(c.Request().Context(), userID, postID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}

// LikePost toggles the current user's like on a post
func (h *PostHandler) LikePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.interactions.ToggleLikePost(c.Request().Context(), userID, currentUsername(c), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// AddComment appends a comment, or a reply when parentCommentId is given
func (h *PostHandler) AddComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	parentID := primitive.NilObjectID
	if req.ParentCommentID != "" {
		if parentID, err = primitive.ObjectIDFromHex(req.ParentCommentID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid parentCommentId")
		}
	}

	post, err := h.interactions.AddComment(c.Request().Context(), userID, currentUsername(c), postID, req.Text, parentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

func bindCommentRef(c echo.Context) (commentID, replyID primitive.ObjectID, err error) {
	var req models.CommentRefRequest
	if err := c.Bind(&req); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}

	commentID, err = primitive.ObjectIDFromHex(req.CommentID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid commentId")
	}

	replyID = primitive.NilObjectID
	if req.ReplyID != "" {
		if replyID, err = primitive.ObjectIDFromHex(req.ReplyID); err != nil {
			return primitive.NilObjectID, primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid replyId")
		}
	}
	return commentID, replyID, nil
}

// LikeComment toggles a like on a comment, or on a reply when replyId is
// given
func (h *PostHandler) LikeComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}
	commentID, replyID, err := bindCommentRef(c)
	if err != nil {
		return err
	}

	post, err := h.interactions.ToggleLikeComment(c.Request().Context(), userID, currentUsername(c), postID, commentID, replyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeleteComment removes a comment or reply the user may moderate
func (h *PostHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}
	commentID, replyID, err := bindCommentRef(c)
	if err != nil {
		return err
	}

	post, err := h.interactions.DeleteComment(c.Request().Context(), userID, postID, commentID, replyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// PinComment toggles the pinned comment of an owned post
func (h *PostHandler) PinComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}
	commentID, _, err := bindCommentRef(c)
	if err != nil {
		return err
	}

	post, err := h.interactions.PinComment(c.Request().Context(), userID, postID, commentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// ToggleSave toggles the post in the current user's saved set
func (h *PostHandler) ToggleSave(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathObjectID(c, "id")
	if err != nil {
		return err
	}

	saved, err := h.interactions.ToggleSavePost(c.Request().Context(), userID, postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": saved})
}
