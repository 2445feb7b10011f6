package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"podhub/internal/middleware"
	"podhub/internal/models"
)

type RelatedLinkService interface {
	Create(ctx context.Context, postID, userID uint, rawURL, title string) (*models.RelatedLink, error)
	List(ctx context.Context, postID uint) ([]models.RelatedLink, error)
}

type RelatedLinkHandler struct {
	links RelatedLinkService
}

func NewRelatedLinkHandler(links RelatedLinkService) *RelatedLinkHandler {
	return &RelatedLinkHandler{links: links}
}

type relatedLinkRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

func (h *RelatedLinkHandler) Create(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	var req relatedLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := h.links.Create(c.Request.Context(), postID, middleware.CurrentUserID(c), req.URL, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *RelatedLinkHandler) List(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	links, err := h.links.List(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}
