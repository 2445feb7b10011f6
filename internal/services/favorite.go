package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"podhub/internal/models"
)

// FavoriteLedger toggles bookmarks and keeps Post.TotalFavorites in step.
type FavoriteLedger struct {
	store LedgerStore
	log   *zap.Logger
}

func NewFavoriteLedger(store LedgerStore, log *zap.Logger) *FavoriteLedger {
	return &FavoriteLedger{store: store, log: log.Named("favorites")}
}

// Toggle flips the bookmark of userID on postID.
func (l *FavoriteLedger) Toggle(ctx context.Context, postID, userID uint) (*models.Favorite, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	var saved *models.Favorite
	err := inTx(ctx, l.store, func(tx LedgerTx) error {
		ref := models.EntityRef{Type: models.EntityPost, ID: postID}
		if err := tx.EnsureEntity(ctx, ref); err != nil {
			return err
		}
		existing, err := tx.LockFavorite(ctx, userID, postID)
		if err != nil {
			return err
		}
		fav, delta := ApplyFavorite(existing, userID, postID)
		if err := tx.SaveFavorite(ctx, fav); err != nil {
			return err
		}
		if err := tx.AddFavorites(ctx, postID, delta); err != nil {
			return err
		}
		saved = fav
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bookmark post %d: %w", postID, err)
	}
	return saved, nil
}

// Deactivate clears a bookmark. It is a no-op on an inactive one.
func (l *FavoriteLedger) Deactivate(ctx context.Context, postID, userID uint) (*models.Favorite, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	var saved *models.Favorite
	err := inTx(ctx, l.store, func(tx LedgerTx) error {
		existing, err := tx.LockFavorite(ctx, userID, postID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		fav := *existing
		if fav.Active {
			fav.Active = false
			if err := tx.SaveFavorite(ctx, &fav); err != nil {
				return err
			}
			if err := tx.AddFavorites(ctx, postID, -1); err != nil {
				return err
			}
		}
		saved = &fav
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unbookmark post %d: %w", postID, err)
	}
	return saved, nil
}

// ApplyFavorite returns the toggled favorite and the change to TotalFavorites.
func ApplyFavorite(existing *models.Favorite, userID, postID uint) (*models.Favorite, int) {
	if existing == nil {
		return &models.Favorite{UserID: userID, PostID: postID, Active: true}, 1
	}
	f := *existing
	f.Active = !f.Active
	if f.Active {
		return &f, 1
	}
	return &f, -1
}

// Bookmarked lists the posts userID currently has bookmarked, newest bookmark first.
func (l *FavoriteLedger) Bookmarked(ctx context.Context, userID uint) ([]models.Post, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	ids, err := l.store.ActiveFavoritePostIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	posts, err := l.store.PostsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			// soft-deleted since it was bookmarked
			continue
		}
		p.Bookmarked = true
		out = append(out, p)
	}
	return out, nil
}
