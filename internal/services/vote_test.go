package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"podhub/internal/models"
)

var (
	post1   = models.EntityRef{Type: models.EntityPost, ID: 1}
	thread1 = models.EntityRef{Type: models.EntityThread, ID: 1}
)

func newTestVoteLedger(refs ...models.EntityRef) (*VoteLedger, *memLedger, *recordingSink) {
	store := newMemLedger(refs...)
	sink := &recordingSink{}
	return NewVoteLedger(store, sink, zap.NewNop()), store, sink
}

func TestApplyVoteTransitions(t *testing.T) {
	vote := func(dir models.Direction, active bool) *models.Vote {
		return &models.Vote{ID: 9, UserID: 1, EntityType: models.EntityPost, EntityID: 1, Direction: dir, Active: active}
	}

	tests := []struct {
		name       string
		existing   *models.Vote
		press      models.Direction
		wantDir    models.Direction
		wantActive bool
		wantDelta  int
	}{
		{"none then up", nil, models.Upvote, models.Upvote, true, 1},
		{"none then down", nil, models.Downvote, models.Downvote, true, -1},
		{"active up then up", vote(models.Upvote, true), models.Upvote, models.Upvote, false, -1},
		{"inactive up then up", vote(models.Upvote, false), models.Upvote, models.Upvote, true, 1},
		{"active down then down", vote(models.Downvote, true), models.Downvote, models.Downvote, false, 1},
		{"inactive down then down", vote(models.Downvote, false), models.Downvote, models.Downvote, true, -1},
		{"active down then up", vote(models.Downvote, true), models.Upvote, models.Upvote, true, 2},
		{"inactive down then up", vote(models.Downvote, false), models.Upvote, models.Upvote, true, 1},
		{"active up then down", vote(models.Upvote, true), models.Downvote, models.Downvote, true, -2},
		{"inactive up then down", vote(models.Upvote, false), models.Downvote, models.Downvote, true, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delta := ApplyVote(tt.existing, 1, post1, tt.press)
			assert.Equal(t, tt.wantDir, got.Direction)
			assert.Equal(t, tt.wantActive, got.Active)
			assert.Equal(t, tt.wantDelta, delta)
			if tt.existing != nil {
				assert.Equal(t, uint(9), got.ID)
			}
		})
	}
}

func TestUpvoteToggle(t *testing.T) {
	ledger, store, sink := newTestVoteLedger(post1)
	ctx := context.Background()

	v, err := ledger.Upvote(ctx, post1, 7)
	require.NoError(t, err)
	assert.True(t, v.Active)
	assert.Equal(t, 1, store.score(post1))
	require.NotNil(t, v.PostID)
	assert.Equal(t, uint(1), *v.PostID)

	v, err = ledger.Upvote(ctx, post1, 7)
	require.NoError(t, err)
	assert.False(t, v.Active)
	assert.Equal(t, 0, store.score(post1))

	assert.Equal(t, 1, store.voteRows())
	assert.Equal(t, []string{EventLiked, EventUnliked}, sink.names())
}

func TestSwitchingSidesMovesScoreByTwo(t *testing.T) {
	ledger, store, sink := newTestVoteLedger(thread1)
	ctx := context.Background()

	_, err := ledger.Upvote(ctx, thread1, 7)
	require.NoError(t, err)
	v, err := ledger.Downvote(ctx, thread1, 7)
	require.NoError(t, err)

	assert.Equal(t, models.Downvote, v.Direction)
	assert.True(t, v.Active)
	assert.Equal(t, -1, store.score(thread1))
	assert.Nil(t, v.PostID)

	_, err = ledger.Upvote(ctx, thread1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, store.score(thread1))
	assert.Equal(t, []string{EventLiked, EventUnliked, EventLiked}, sink.names())
}

func TestScoreIsNetOfActiveVotes(t *testing.T) {
	ledger, store, _ := newTestVoteLedger(post1)
	ctx := context.Background()

	presses := []struct {
		user uint
		dir  models.Direction
	}{
		{1, models.Upvote}, {2, models.Upvote}, {3, models.Downvote},
		{1, models.Downvote}, {2, models.Upvote}, {3, models.Downvote},
		{4, models.Downvote}, {1, models.Downvote}, {4, models.Upvote},
	}
	for _, p := range presses {
		if p.dir == models.Upvote {
			_, err := ledger.Upvote(ctx, post1, p.user)
			require.NoError(t, err)
		} else {
			_, err := ledger.Downvote(ctx, post1, p.user)
			require.NoError(t, err)
		}
	}

	net := 0
	votes, err := store.ListVotes(ctx, 0, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, votes)
	for user := uint(1); user <= 4; user++ {
		vs, err := store.ListVotes(ctx, user, 0, 100)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		if vs[0].Active {
			net += vs[0].Direction.Sign()
		}
	}
	assert.Equal(t, net, store.score(post1))
}

func TestVoteErrors(t *testing.T) {
	ledger, store, sink := newTestVoteLedger(post1)
	ctx := context.Background()

	_, err := ledger.Upvote(ctx, post1, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ledger.Upvote(ctx, models.EntityRef{Type: models.EntityPost, ID: 404}, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ledger.Downvote(ctx, models.EntityRef{Type: "episode", ID: 1}, 7)
	assert.ErrorIs(t, err, ErrBadRequest)

	assert.Equal(t, 0, store.voteRows())
	assert.Empty(t, sink.names())
}

func TestVoteRetriesOnceOnConflict(t *testing.T) {
	ledger, store, _ := newTestVoteLedger(post1)
	store.conflicts = 1

	v, err := ledger.Upvote(context.Background(), post1, 7)
	require.NoError(t, err)
	assert.True(t, v.Active)
	assert.Equal(t, 2, store.txCalls)
	assert.Equal(t, 1, store.score(post1))

	store.conflicts = 2
	_, err = ledger.Upvote(context.Background(), post1, 7)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, store.score(post1))
}

func TestSinkFailureDoesNotFailVote(t *testing.T) {
	ledger, store, sink := newTestVoteLedger(post1)
	sink.err = errors.New("engine down")

	_, err := ledger.Upvote(context.Background(), post1, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, store.score(post1))
}

func TestConcurrentVotesKeepOneRow(t *testing.T) {
	ledger, store, _ := newTestVoteLedger(post1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ledger.Upvote(context.Background(), post1, 7)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.voteRows())
	// an even number of toggles leaves the vote inactive
	assert.Equal(t, 0, store.score(post1))
}

func TestGetAndList(t *testing.T) {
	post2 := models.EntityRef{Type: models.EntityPost, ID: 2}
	ledger, _, _ := newTestVoteLedger(post1, post2, thread1)
	ctx := context.Background()

	first, err := ledger.Upvote(ctx, post1, 7)
	require.NoError(t, err)
	_, err = ledger.Downvote(ctx, post2, 7)
	require.NoError(t, err)
	last, err := ledger.Upvote(ctx, thread1, 7)
	require.NoError(t, err)
	_, err = ledger.Upvote(ctx, thread1, 8)
	require.NoError(t, err)

	got, err := ledger.Get(ctx, first.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	require.NotNil(t, got.PostID)

	_, err = ledger.Get(ctx, first.ID, 8)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ledger.Get(ctx, 999, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	votes, err := ledger.List(ctx, 7, 0, 0)
	require.NoError(t, err)
	require.Len(t, votes, 3)
	assert.Equal(t, last.ID, votes[0].ID)
	assert.Equal(t, first.ID, votes[2].ID)

	votes, err = ledger.List(ctx, 7, 1, 1)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, models.EntityRef{Type: models.EntityPost, ID: 2}, votes[0].Ref())

	_, err = ledger.List(ctx, 7, -1, 10)
	assert.ErrorIs(t, err, ErrBadRequest)
}
