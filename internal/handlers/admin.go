package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"podhub/internal/models"
	"podhub/internal/services"
)

type PostService interface {
	Create(ctx context.Context, in services.PostInput) (*models.Post, error)
	Update(ctx context.Context, id uint, in services.PostInput) (*models.Post, error)
}

// AdminHandler 后台单集编辑，保存后触发 RSS 重建
type AdminHandler struct {
	posts PostService
}

func NewAdminHandler(posts PostService) *AdminHandler {
	return &AdminHandler{posts: posts}
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	var in services.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.posts.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	id, ok := paramID(c, "postId")
	if !ok {
		return
	}
	var in services.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.posts.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
