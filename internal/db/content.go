package db

import (
	"context"

	"podhub/internal/models"
)

func (s *Store) PublishedEpisodes(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Select("id", "title", "excerpt", "description", "mp3_url", "ad_free_mp3_url", "image_url", "link", "published_at").
		Where("status = ? AND deleted = ?", models.StatusPublish, false).
		Find(&posts).Error
	return posts, translate(err)
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) FindPost(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.db.WithContext(ctx).Where("id = ? AND deleted = ?", id, false).Take(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) SavePost(ctx context.Context, p *models.Post) error {
	return translate(s.db.WithContext(ctx).Save(p).Error)
}

func (s *Store) CreateRelatedLink(ctx context.Context, l *models.RelatedLink) error {
	if _, err := s.FindPost(ctx, l.PostID); err != nil {
		return err
	}
	return translate(s.db.WithContext(ctx).Create(l).Error)
}

func (s *Store) ListRelatedLinks(ctx context.Context, postID uint) ([]models.RelatedLink, error) {
	var links []models.RelatedLink
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND deleted = ?", postID, false).
		Order("score DESC, id ASC").
		Find(&links).Error
	return links, translate(err)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) IsActive(ctx context.Context, id string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND active = ?", id, true).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *Store) ActiveSubscriptionID(ctx context.Context, userID uint) (string, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		Take(&sub).Error
	if err != nil {
		return "", translate(err)
	}
	return sub.ID, nil
}
