package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"podhub/internal/middleware"
	"podhub/internal/models"
)

type FavoriteService interface {
	Toggle(ctx context.Context, postID, userID uint) (*models.Favorite, error)
	Deactivate(ctx context.Context, postID, userID uint) (*models.Favorite, error)
	Bookmarked(ctx context.Context, userID uint) ([]models.Post, error)
}

type BookmarkHandler struct {
	favorites FavoriteService
}

func NewBookmarkHandler(favorites FavoriteService) *BookmarkHandler {
	return &BookmarkHandler{favorites: favorites}
}

// Toggle 收藏/取消收藏
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	fav, err := h.favorites.Toggle(c.Request.Context(), postID, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// Remove 取消收藏，重复调用不会重复扣减
func (h *BookmarkHandler) Remove(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	fav, err := h.favorites.Deactivate(c.Request.Context(), postID, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// List 我的收藏
func (h *BookmarkHandler) List(c *gin.Context) {
	posts, err := h.favorites.Bookmarked(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
