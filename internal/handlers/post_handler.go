package handlers

import (
	"net/http"

	"github.com/anonto42/chirp/backend/internal/middleware"
	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/getall", h.GetAllPosts)
	g.GET("/following", h.GetFollowingPosts)
	g.GET("/likes/:id", h.GetLikedPosts)
	g.GET("/user/:username", h.GetUserPosts)
	g.POST("/create", h.CreatePost)
	g.POST("/like/:id", h.LikeUnlikePost)
	g.POST("/comment/:id", h.CommentOnPost)
	g.DELETE("/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), current.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), current.ID, postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
