package services

import (
	"context"
	"errors"

	"podhub/internal/models"
)

// LedgerStore persists votes and favorites together with the denormalized counters
// they maintain on the target entities.
type LedgerStore interface {
	// Transaction runs fn inside one storage transaction. Any error rolls it back.
	Transaction(ctx context.Context, fn func(tx LedgerTx) error) error

	FindVote(ctx context.Context, id uint) (*models.Vote, error)
	ListVotes(ctx context.Context, userID uint, skip, limit int) ([]models.Vote, error)

	// ActiveFavoritePostIDs returns post ids most recently bookmarked first.
	ActiveFavoritePostIDs(ctx context.Context, userID uint) ([]uint, error)
	PostsByIDs(ctx context.Context, ids []uint) ([]models.Post, error)
}

// LedgerTx is the transactional view of a LedgerStore.
type LedgerTx interface {
	// EnsureEntity returns ErrNotFound when ref does not name a live record.
	EnsureEntity(ctx context.Context, ref models.EntityRef) error
	AddScore(ctx context.Context, ref models.EntityRef, delta int) error

	// LockVote returns the existing vote for (user, ref) or nil when there is none.
	LockVote(ctx context.Context, userID uint, ref models.EntityRef) (*models.Vote, error)
	SaveVote(ctx context.Context, v *models.Vote) error

	LockFavorite(ctx context.Context, userID, postID uint) (*models.Favorite, error)
	SaveFavorite(ctx context.Context, f *models.Favorite) error
	AddFavorites(ctx context.Context, postID uint, delta int) error
}

// inTx runs fn in a transaction and retries once when a concurrent first write
// for the same pair lost the race on the unique index.
func inTx(ctx context.Context, store LedgerStore, fn func(tx LedgerTx) error) error {
	err := store.Transaction(ctx, fn)
	if errors.Is(err, ErrConflict) {
		err = store.Transaction(ctx, fn)
	}
	return err
}
