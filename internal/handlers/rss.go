package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"podhub/internal/middleware"
	"podhub/internal/services"
)

const xmlContentType = "text/xml; charset=utf-8"

// AccessChecker decides whether an encoded subscription id may read the private
// feed and hands subscribers their link.
type AccessChecker interface {
	Allowed(ctx context.Context, encoded string) (bool, error)
	PrivateFeedURL(ctx context.Context, userID uint) (string, error)
}

// RSSHandler serves the prebuilt feed documents. Nothing is rendered per request.
type RSSHandler struct {
	feeds  services.FeedStore
	access AccessChecker
	log    *zap.Logger
}

func NewRSSHandler(feeds services.FeedStore, access AccessChecker, log *zap.Logger) *RSSHandler {
	return &RSSHandler{feeds: feeds, access: access, log: log.Named("rss")}
}

// PublicLimited GET /rss/public/all
func (h *RSSHandler) PublicLimited(c *gin.Context) {
	h.serve(c, services.VariantPublicLimited)
}

// PublicAll GET /rss/public/all_unlimited
func (h *RSSHandler) PublicAll(c *gin.Context) {
	h.serve(c, services.VariantPublicAll)
}

// Private GET /rss/private/:id
func (h *RSSHandler) Private(c *gin.Context) {
	ok, err := h.access.Allowed(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("subscription lookup", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	h.serve(c, services.VariantPrivate)
}

// PrivateLink GET /subscriptions/feed-link
func (h *RSSHandler) PrivateLink(c *gin.Context) {
	link, err := h.access.PrivateFeedURL(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

func (h *RSSHandler) serve(c *gin.Context, v services.Variant) {
	doc, err := h.feeds.Get(c.Request.Context(), v)
	if errors.Is(err, services.ErrNotFound) {
		// first build has not finished yet
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		h.log.Error("load feed", zap.String("variant", string(v)), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("X-Feed-Version", formatVersion(doc.Version))
	c.Data(http.StatusOK, xmlContentType, doc.XML)
}
