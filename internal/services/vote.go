package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"podhub/internal/models"
)

const (
	DefaultVoteLimit = 10
	MaxVoteLimit     = 100
)

// VoteLedger records directional votes and keeps each target's score equal to
// the net of its active votes.
type VoteLedger struct {
	store  LedgerStore
	events EventSink
	log    *zap.Logger
}

func NewVoteLedger(store LedgerStore, events EventSink, log *zap.Logger) *VoteLedger {
	return &VoteLedger{store: store, events: events, log: log.Named("votes")}
}

func (l *VoteLedger) Upvote(ctx context.Context, ref models.EntityRef, userID uint) (*models.Vote, error) {
	return l.cast(ctx, ref, userID, models.Upvote)
}

func (l *VoteLedger) Downvote(ctx context.Context, ref models.EntityRef, userID uint) (*models.Vote, error) {
	return l.cast(ctx, ref, userID, models.Downvote)
}

func (l *VoteLedger) cast(ctx context.Context, ref models.EntityRef, userID uint, dir models.Direction) (*models.Vote, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if !ref.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrBadRequest, ref.Type)
	}

	var saved *models.Vote
	err := inTx(ctx, l.store, func(tx LedgerTx) error {
		if err := tx.EnsureEntity(ctx, ref); err != nil {
			return err
		}
		existing, err := tx.LockVote(ctx, userID, ref)
		if err != nil {
			return err
		}
		vote, delta := ApplyVote(existing, userID, ref, dir)
		if err := tx.SaveVote(ctx, vote); err != nil {
			return err
		}
		if err := tx.AddScore(ctx, ref, delta); err != nil {
			return err
		}
		saved = vote
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s %d: %w", dir, ref.Type, ref.ID, err)
	}

	if err := l.events.Track(ctx, Event{Name: eventFor(saved), UserID: userID, Entity: ref}); err != nil {
		l.log.Warn("track vote event", zap.Error(err), zap.Uint("vote_id", saved.ID))
	}

	saved.FillLegacy()
	return saved, nil
}

// ApplyVote computes the vote that results from pressing dir and the score delta
// it causes. Every action is a toggle or a flip, never an idempotent set.
func ApplyVote(existing *models.Vote, userID uint, ref models.EntityRef, dir models.Direction) (*models.Vote, int) {
	sign := dir.Sign()
	if existing == nil {
		return &models.Vote{
			UserID:     userID,
			EntityType: ref.Type,
			EntityID:   ref.ID,
			Direction:  dir,
			Active:     true,
		}, sign
	}

	v := *existing
	if v.Direction == dir {
		v.Active = !v.Active
		if v.Active {
			return &v, sign
		}
		return &v, -sign
	}

	// switching sides also removes the old vote's contribution
	delta := sign
	if v.Active {
		delta = 2 * sign
	}
	v.Direction = dir
	v.Active = true
	return &v, delta
}

// Get returns a vote owned by userID.
func (l *VoteLedger) Get(ctx context.Context, id, userID uint) (*models.Vote, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	v, err := l.store.FindVote(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, ErrNotFound
	}
	v.FillLegacy()
	return v, nil
}

// List pages through a user's votes, most recent first.
func (l *VoteLedger) List(ctx context.Context, userID uint, skip, limit int) ([]models.Vote, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", ErrBadRequest)
	}
	if limit <= 0 {
		limit = DefaultVoteLimit
	}
	if limit > MaxVoteLimit {
		limit = MaxVoteLimit
	}

	votes, err := l.store.ListVotes(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range votes {
		votes[i].FillLegacy()
	}
	return votes, nil
}
