package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"podhub/internal/models"
)

// memLedger is an in-memory LedgerStore. Transactions run under one mutex and
// roll back by restoring a snapshot.
type memLedger struct {
	mu        sync.Mutex
	scores    map[models.EntityRef]int
	favCounts map[uint]int
	deleted   map[uint]bool
	votes     []models.Vote
	favorites []models.Favorite
	nextID    uint
	clock     time.Time

	// conflicts makes the next n transactions fail with ErrConflict.
	conflicts int
	txCalls   int
}

func newMemLedger(refs ...models.EntityRef) *memLedger {
	m := &memLedger{
		scores:    map[models.EntityRef]int{},
		favCounts: map[uint]int{},
		deleted:   map[uint]bool{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, r := range refs {
		m.scores[r] = 0
	}
	return m
}

func (m *memLedger) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memLedger) Transaction(ctx context.Context, fn func(tx LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCalls++
	if m.conflicts > 0 {
		m.conflicts--
		return ErrConflict
	}

	scores := make(map[models.EntityRef]int, len(m.scores))
	for k, v := range m.scores {
		scores[k] = v
	}
	favCounts := make(map[uint]int, len(m.favCounts))
	for k, v := range m.favCounts {
		favCounts[k] = v
	}
	votes := append([]models.Vote(nil), m.votes...)
	favorites := append([]models.Favorite(nil), m.favorites...)
	nextID := m.nextID

	if err := fn(memTx{m}); err != nil {
		m.scores, m.favCounts, m.votes, m.favorites, m.nextID = scores, favCounts, votes, favorites, nextID
		return err
	}
	return nil
}

func (m *memLedger) FindVote(ctx context.Context, id uint) (*models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.votes {
		if v.ID == id {
			v := v
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memLedger) ListVotes(ctx context.Context, userID uint, skip, limit int) ([]models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Vote
	for _, v := range m.votes {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if skip >= len(out) {
		return []models.Vote{}, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memLedger) ActiveFavoritePostIDs(ctx context.Context, userID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []models.Favorite
	for _, f := range m.favorites {
		if f.UserID == userID && f.Active {
			active = append(active, f)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].UpdatedAt.After(active[j].UpdatedAt) })
	ids := make([]uint, 0, len(active))
	for _, f := range active {
		ids = append(ids, f.PostID)
	}
	return ids, nil
}

func (m *memLedger) PostsByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, id := range ids {
		ref := models.EntityRef{Type: models.EntityPost, ID: id}
		if _, ok := m.scores[ref]; !ok || m.deleted[id] {
			continue
		}
		out = append(out, models.Post{ID: id, Title: "episode", Score: m.scores[ref], TotalFavorites: m.favCounts[id]})
	}
	return out, nil
}

func (m *memLedger) score(ref models.EntityRef) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[ref]
}

func (m *memLedger) favoritesOf(postID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favCounts[postID]
}

func (m *memLedger) voteRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.votes)
}

// memTx runs with memLedger.mu held.
type memTx struct{ m *memLedger }

func (t memTx) EnsureEntity(ctx context.Context, ref models.EntityRef) error {
	if _, ok := t.m.scores[ref]; !ok {
		return ErrNotFound
	}
	if ref.Type == models.EntityPost && t.m.deleted[ref.ID] {
		return ErrNotFound
	}
	return nil
}

func (t memTx) AddScore(ctx context.Context, ref models.EntityRef, delta int) error {
	t.m.scores[ref] += delta
	return nil
}

func (t memTx) LockVote(ctx context.Context, userID uint, ref models.EntityRef) (*models.Vote, error) {
	for _, v := range t.m.votes {
		if v.UserID == userID && v.Ref() == ref {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (t memTx) SaveVote(ctx context.Context, v *models.Vote) error {
	now := t.m.tick()
	if v.ID == 0 {
		for _, existing := range t.m.votes {
			if existing.UserID == v.UserID && existing.Ref() == v.Ref() {
				return ErrConflict
			}
		}
		t.m.nextID++
		v.ID = t.m.nextID
		v.CreatedAt = now
		v.UpdatedAt = now
		t.m.votes = append(t.m.votes, *v)
		return nil
	}
	for i := range t.m.votes {
		if t.m.votes[i].ID == v.ID {
			v.UpdatedAt = now
			t.m.votes[i] = *v
			return nil
		}
	}
	return ErrNotFound
}

func (t memTx) LockFavorite(ctx context.Context, userID, postID uint) (*models.Favorite, error) {
	for _, f := range t.m.favorites {
		if f.UserID == userID && f.PostID == postID {
			f := f
			return &f, nil
		}
	}
	return nil, nil
}

func (t memTx) SaveFavorite(ctx context.Context, f *models.Favorite) error {
	now := t.m.tick()
	f.UpdatedAt = now
	if f.ID == 0 {
		t.m.nextID++
		f.ID = t.m.nextID
		f.CreatedAt = now
		t.m.favorites = append(t.m.favorites, *f)
		return nil
	}
	for i := range t.m.favorites {
		if t.m.favorites[i].ID == f.ID {
			t.m.favorites[i] = *f
			return nil
		}
	}
	return ErrNotFound
}

func (t memTx) AddFavorites(ctx context.Context, postID uint, delta int) error {
	t.m.favCounts[postID] += delta
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Track(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Name)
	}
	return out
}
