package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"podhub/internal/models"
	"podhub/internal/utils"
)

// PostStore persists episodes.
type PostStore interface {
	CreatePost(ctx context.Context, p *models.Post) error
	FindPost(ctx context.Context, id uint) (*models.Post, error)
	SavePost(ctx context.Context, p *models.Post) error
}

// FeedTrigger asks for an asynchronous feed rebuild.
type FeedTrigger interface {
	Trigger()
}

// PostInput is what an editor submits. Content is markdown.
type PostInput struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Excerpt      string     `json:"excerpt"`
	Description  string     `json:"description"`
	MP3URL       string     `json:"mp3_url"`
	AdFreeMP3URL string     `json:"ad_free_mp3_url"`
	ImageURL     string     `json:"image_url"`
	Link         string     `json:"link"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at"`
}

// PostService is the editor side of episodes. Every save refreshes the feeds.
type PostService struct {
	store PostStore
	feeds FeedTrigger
	log   *zap.Logger
	now   func() time.Time
}

func NewPostService(store PostStore, feeds FeedTrigger, log *zap.Logger) *PostService {
	return &PostService{store: store, feeds: feeds, log: log.Named("posts"), now: time.Now}
}

func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	p := &models.Post{}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.Info("post created", zap.Uint("post_id", p.ID), zap.String("status", string(p.Status)))
	s.feeds.Trigger()
	return p, nil
}

func (s *PostService) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	p, err := s.store.FindPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.store.SavePost(ctx, p); err != nil {
		return nil, fmt.Errorf("save post %d: %w", id, err)
	}
	s.log.Info("post updated", zap.Uint("post_id", p.ID), zap.String("status", string(p.Status)))
	s.feeds.Trigger()
	return p, nil
}

func (s *PostService) apply(p *models.Post, in PostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrBadRequest)
	}

	status := models.PostStatus(in.Status)
	switch status {
	case "":
		status = models.StatusDraft
	case models.StatusDraft, models.StatusPublish:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrBadRequest, in.Status)
	}

	content, err := utils.RenderMarkdown(in.Content)
	if err != nil {
		return fmt.Errorf("%w: render content: %v", ErrBadRequest, err)
	}

	p.Title = title
	p.Content = content
	p.Excerpt = in.Excerpt
	p.Description = strings.TrimSpace(in.Description)
	p.MP3URL = strings.TrimSpace(in.MP3URL)
	p.AdFreeMP3URL = strings.TrimSpace(in.AdFreeMP3URL)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.Link = strings.TrimSpace(in.Link)
	p.Status = status
	switch {
	case in.PublishedAt != nil:
		p.PublishedAt = in.PublishedAt.UTC()
	case p.PublishedAt.IsZero():
		p.PublishedAt = s.now().UTC()
	}
	return nil
}
