package router

import (
	"github.com/gin-gonic/gin"

	"podhub/internal/handlers"
	"podhub/internal/middleware"
	"podhub/internal/models"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Votes        *handlers.VoteHandler
	Bookmarks    *handlers.BookmarkHandler
	RSS          *handlers.RSSHandler
	RelatedLinks *handlers.RelatedLinkHandler
	Admin        *handlers.AdminHandler
	Tokens       middleware.TokenParser
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	auth := middleware.AuthRequired(h.Tokens)

	// 公共路由 (Public Routes)
	r.GET("/health", handlers.Health)
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.GET("/posts/:postId/related-links", h.RelatedLinks.List)

	// 播客 RSS
	rss := r.Group("/rss")
	{
		rss.GET("/public/all", h.RSS.PublicLimited)       // 最近 300 集
		rss.GET("/public/all_unlimited", h.RSS.PublicAll) // 全部单集
		rss.GET("/private/:id", h.RSS.Private)            // 订阅者无广告版
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(auth)
	{
		// 书签。/posts/bookmarked 必须与 /posts/:postId 前缀共存
		authorized.GET("/posts/bookmarked", h.Bookmarks.List)
		authorized.POST("/posts/:postId/bookmark", h.Bookmarks.Toggle)
		authorized.POST("/posts/:postId/unbookmark", h.Bookmarks.Remove)

		authorized.POST("/posts/:postId/related-links", h.RelatedLinks.Create)

		voteRoutes(authorized, h.Votes, "/posts/:postId", models.EntityPost, "postId")
		voteRoutes(authorized, h.Votes, "/threads/:threadId", models.EntityThread, "threadId")
		voteRoutes(authorized, h.Votes, "/comments/:commentId", models.EntityComment, "commentId")
		voteRoutes(authorized, h.Votes, "/related-links/:linkId", models.EntityRelatedLink, "linkId")

		authorized.GET("/subscriptions/feed-link", h.RSS.PrivateLink)

		authorized.GET("/votes", h.Votes.List)
		authorized.GET("/votes/:voteId", h.Votes.Get)
	}

	// 后台
	admin := r.Group("/admin")
	admin.Use(auth, middleware.AdminRequired())
	{
		admin.POST("/posts", h.Admin.CreatePost)
		admin.PUT("/posts/:postId", h.Admin.UpdatePost)
	}
}

func voteRoutes(g *gin.RouterGroup, h *handlers.VoteHandler, prefix string, t models.EntityType, param string) {
	g.POST(prefix+"/upvote", h.Upvote(t, param))
	g.POST(prefix+"/downvote", h.Downvote(t, param))
}
