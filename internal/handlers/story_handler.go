package handlers

import (
	"net/http"

	"github.com/3w-social/backend/internal/services"
	"github.com/3w-social/backend/internal/upload"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	stories *services.StoryService
	uploads *upload.Saver
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(stories *services.StoryService, uploads *upload.Saver) *StoryHandler {
	return &StoryHandler{stories: stories, uploads: uploads}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/expire-cleanup", h.ExpireCleanup)
	g.DELETE("/stories/:storyId", h.DeleteStory)
	g.PUT("/stories/:targetUserId/:storyId/like", h.LikeStory)
}

// GetStories returns the story tray: the viewer's circle grouped by user,
// expired entries already swept away
func (h *StoryHandler) GetStories(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	groups, err := h.stories.ListFor(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// CreateStory appends a story from a multipart form: a required media file
// and an optional overlayText field
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("media")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Media file is required for stories")
	}

	res, err := h.uploads.Save(fh, "story", true)
	if err != nil {
		return httpError(err)
	}

	story, err := h.stories.Add(c.Request().Context(), userID, res.URL, res.MediaType, c.FormValue("overlayText"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, story)
}

// DeleteStory removes one of the caller's own stories
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	storyID, err := pathObjectID(c, "storyId")
	if err != nil {
		return err
	}

	if err := h.stories.Delete(c.Request().Context(), userID, storyID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Story deleted"})
}

// LikeStory toggles the caller's like on another user's story
func (h *StoryHandler) LikeStory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	targetUserID, err := pathObjectID(c, "targetUserId")
	if err != nil {
		return err
	}
	storyID, err := pathObjectID(c, "storyId")
	if err != nil {
		return err
	}

	story, err := h.stories.ToggleLike(c.Request().Context(), userID, currentUsername(c), targetUserID, storyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, story)
}

// ExpireCleanup triggers the bulk expiry sweep, for cron-style external
// scheduling
func (h *StoryHandler) ExpireCleanup(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	if err := h.stories.ExpireNow(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Expired stories cleared from database"})
}
