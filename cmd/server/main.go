package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"podhub/internal/config"
	"podhub/internal/db"
	"podhub/internal/handlers"
	"podhub/internal/logger"
	"podhub/internal/middleware"
	"podhub/internal/router"
	"podhub/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	store := db.NewStore(gdb)

	var feeds services.FeedStore = services.NewMemoryFeedStore()
	if cfg.RedisURL != "" {
		client, err := db.ConnectRedis(ctx, cfg.RedisURL, zlog)
		if err != nil {
			zlog.Fatal("redis", zap.Error(err))
		}
		defer client.Close()
		feeds = services.NewRedisFeedStore(client)
	} else {
		zlog.Info("REDIS_URL not set, feed documents kept in process memory")
	}

	builder := services.NewFeedBuilder(store, feeds, services.FeedOptions{
		Title:         cfg.FeedTitle,
		Link:          cfg.SiteURL,
		Description:   cfg.FeedDescription,
		Image:         cfg.FeedImage,
		Author:        cfg.FeedAuthor,
		Email:         cfg.FeedEmail,
		Limit:         cfg.FeedLimit,
		AdFreeBaseURL: cfg.AdFreeBaseURL,
	}, zlog)
	scheduler, err := services.NewFeedScheduler(builder, cfg.FeedSchedule, zlog)
	if err != nil {
		zlog.Fatal("feed scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	authService := services.NewAuthService(store, cfg.JWTSecret)
	h := router.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Votes:        handlers.NewVoteHandler(services.NewVoteLedger(store, services.NewLogEventSink(zlog), zlog)),
		Bookmarks:    handlers.NewBookmarkHandler(services.NewFavoriteLedger(store, zlog)),
		RSS:          handlers.NewRSSHandler(feeds, services.NewSubscriptionAccess(store, cfg.SiteURL), zlog),
		RelatedLinks: handlers.NewRelatedLinkHandler(services.NewRelatedLinkService(store, services.NewLinkCrawler(cfg.LinkFetchTimeout))),
		Admin:        handlers.NewAdminHandler(services.NewPostService(store, scheduler, zlog)),
		Tokens:       authService,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(zlog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
}
