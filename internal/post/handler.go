package post

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CeliaIneza/celebstash-back/internal/api"
	"github.com/CeliaIneza/celebstash-back/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo: repo,
	}
}

// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body post.CreatePostRequest true "Post payload"
// @Success      201 {object} post.Post
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /posts [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "content is required"})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        limit query int false "Page size" default(20)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} post.Post
// @Router       /posts [get]
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.repo.GetAll(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200 {object} post.Post
// @Failure      404 {object} api.ErrorResponse
// @Router       /posts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid post id"})
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load post"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Delete post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /posts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid post id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "post deleted"})
}

// @Summary      Like a post or product
// @Tags         likes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body post.LikeRequest true "Like payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /likes [post]
func (h *Handler) Like(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "likeable_type must be post or product"})
		return
	}

	if err := h.repo.Like(c.Request.Context(), userID, req.LikeableType, req.LikeableID); err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "already liked"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to like"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "liked"})
}

// @Summary      Remove a like
// @Tags         likes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body post.LikeRequest true "Like payload"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /likes [delete]
func (h *Handler) Unlike(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "likeable_type must be post or product"})
		return
	}

	if err := h.repo.Unlike(c.Request.Context(), userID, req.LikeableType, req.LikeableID); err != nil {
		if errors.Is(err, ErrLikeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "like not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to remove like"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "like removed"})
}
