package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

// ScoreRepo keeps the leaderboard in process memory. It is used when no
// database is configured and by tests.
type ScoreRepo struct {
	mu      sync.RWMutex
	entries []domain.ScoreEntry
	nextID  int64
}

func NewScoreRepo() *ScoreRepo {
	return &ScoreRepo{nextID: 1}
}

func (r *ScoreRepo) Append(_ context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	return entry, nil
}

// List returns up to limit entries by descending score; equal scores keep
// insertion order. A limit <= 0 returns everything.
func (r *ScoreRepo) List(_ context.Context, limit int) ([]domain.ScoreEntry, error) {
	r.mu.RLock()
	out := slices.Clone(r.entries)
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.ScoreEntry) int {
		return b.Score - a.Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
