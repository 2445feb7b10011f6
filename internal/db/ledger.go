package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"podhub/internal/models"
	"podhub/internal/services"
)

func (s *Store) Transaction(ctx context.Context, fn func(tx services.LedgerTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{db: tx})
	})
	return translate(err)
}

func (s *Store) FindVote(ctx context.Context, id uint) (*models.Vote, error) {
	var v models.Vote
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *Store) ListVotes(ctx context.Context, userID uint, skip, limit int) ([]models.Vote, error) {
	votes := []models.Vote{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&votes).Error
	return votes, translate(err)
}

func (s *Store) ActiveFavoritePostIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND active = ?", userID, true).
		Order("updated_at DESC, id DESC").
		Pluck("post_id", &ids).Error
	return ids, translate(err)
}

func (s *Store) PostsByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("id IN ? AND deleted = ?", ids, false).
		Find(&posts).Error
	return posts, translate(err)
}

type ledgerTx struct {
	db *gorm.DB
}

// entityModel returns the table that holds the score of an entity type.
func entityModel(t models.EntityType) (interface{}, error) {
	switch t {
	case models.EntityPost:
		return &models.Post{}, nil
	case models.EntityThread:
		return &models.Thread{}, nil
	case models.EntityComment:
		return &models.Comment{}, nil
	case models.EntityRelatedLink:
		return &models.RelatedLink{}, nil
	}
	return nil, services.ErrBadRequest
}

func (t *ledgerTx) EnsureEntity(ctx context.Context, ref models.EntityRef) error {
	model, err := entityModel(ref.Type)
	if err != nil {
		return err
	}
	var n int64
	err = t.db.WithContext(ctx).Model(model).
		Where("id = ? AND deleted = ?", ref.ID, false).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) AddScore(ctx context.Context, ref models.EntityRef, delta int) error {
	model, err := entityModel(ref.Type)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Model(model).
		Where("id = ?", ref.ID).
		UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
}

func (t *ledgerTx) LockVote(ctx context.Context, userID uint, ref models.EntityRef) (*models.Vote, error) {
	var v models.Vote
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND entity_type = ? AND entity_id = ?", userID, ref.Type, ref.ID).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (t *ledgerTx) SaveVote(ctx context.Context, v *models.Vote) error {
	if v.ID == 0 {
		return t.db.WithContext(ctx).Create(v).Error
	}
	return t.db.WithContext(ctx).Save(v).Error
}

func (t *ledgerTx) LockFavorite(ctx context.Context, userID, postID uint) (*models.Favorite, error) {
	var f models.Favorite
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (t *ledgerTx) SaveFavorite(ctx context.Context, f *models.Favorite) error {
	if f.ID == 0 {
		return t.db.WithContext(ctx).Create(f).Error
	}
	return t.db.WithContext(ctx).Save(f).Error
}

func (t *ledgerTx) AddFavorites(ctx context.Context, postID uint, delta int) error {
	return t.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("total_favorites", gorm.Expr("total_favorites + ?", delta)).Error
}
