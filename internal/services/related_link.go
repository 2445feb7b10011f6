package services

import (
	"context"
	"fmt"
	"strings"

	"podhub/internal/models"
)

// RelatedLinkStore persists links attached to episodes.
type RelatedLinkStore interface {
	// CreateRelatedLink returns ErrNotFound when the post does not exist.
	CreateRelatedLink(ctx context.Context, l *models.RelatedLink) error
	ListRelatedLinks(ctx context.Context, postID uint) ([]models.RelatedLink, error)
}

// MetaFetcher looks up a page's title and image.
type MetaFetcher interface {
	Fetch(ctx context.Context, rawURL string) (LinkMeta, error)
}

type RelatedLinkService struct {
	store   RelatedLinkStore
	fetcher MetaFetcher
}

func NewRelatedLinkService(store RelatedLinkStore, fetcher MetaFetcher) *RelatedLinkService {
	return &RelatedLinkService{store: store, fetcher: fetcher}
}

// Create attaches rawURL to a post. Without a title the page is fetched once and
// the request fails if that fetch fails.
func (s *RelatedLinkService) Create(ctx context.Context, postID, userID uint, rawURL, title string) (*models.RelatedLink, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrBadRequest)
	}

	link := &models.RelatedLink{PostID: postID, UserID: userID, URL: rawURL, Title: strings.TrimSpace(title)}
	if link.Title == "" {
		meta, err := s.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		link.Title = meta.Title
		link.Image = meta.Image
	}

	if err := s.store.CreateRelatedLink(ctx, link); err != nil {
		return nil, fmt.Errorf("related link for post %d: %w", postID, err)
	}
	return link, nil
}

func (s *RelatedLinkService) List(ctx context.Context, postID uint) ([]models.RelatedLink, error) {
	links, err := s.store.ListRelatedLinks(ctx, postID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []models.RelatedLink{}
	}
	return links, nil
}
