package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"podhub/internal/middleware"
	"podhub/internal/models"
)

// VoteService is the subset of the vote ledger the handlers use.
type VoteService interface {
	Upvote(ctx context.Context, ref models.EntityRef, userID uint) (*models.Vote, error)
	Downvote(ctx context.Context, ref models.EntityRef, userID uint) (*models.Vote, error)
	Get(ctx context.Context, id, userID uint) (*models.Vote, error)
	List(ctx context.Context, userID uint, skip, limit int) ([]models.Vote, error)
}

type VoteHandler struct {
	votes VoteService
}

func NewVoteHandler(votes VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Upvote returns the handler for POST /<entities>/:<param>/upvote.
func (h *VoteHandler) Upvote(t models.EntityType, param string) gin.HandlerFunc {
	return h.cast(t, param, models.Upvote)
}

// Downvote returns the handler for POST /<entities>/:<param>/downvote.
func (h *VoteHandler) Downvote(t models.EntityType, param string) gin.HandlerFunc {
	return h.cast(t, param, models.Downvote)
}

func (h *VoteHandler) cast(t models.EntityType, param string, dir models.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, param)
		if !ok {
			return
		}
		cast := h.votes.Upvote
		if dir == models.Downvote {
			cast = h.votes.Downvote
		}
		vote, err := cast(c.Request.Context(), models.EntityRef{Type: t, ID: id}, middleware.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vote)
	}
}

// List GET /votes?skip=&limit=
func (h *VoteHandler) List(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	votes, err := h.votes.List(c.Request.Context(), middleware.CurrentUserID(c), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

// Get GET /votes/:voteId
func (h *VoteHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "voteId")
	if !ok {
		return
	}
	vote, err := h.votes.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vote)
}
