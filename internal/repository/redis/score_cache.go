package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

const leaderboardKeyPrefix = "leaderboard:top:"

// ScoreStore is the store behind the cache.
type ScoreStore interface {
	Append(ctx context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, error)
	List(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}

// CachedScoreStore serves leaderboard reads from Redis and falls through to
// the wrapped store on a miss. Cache failures are logged and never fail a
// request. Cached pages are dropped on every append.
type CachedScoreStore struct {
	store  ScoreStore
	cache  Cache
	ttl    time.Duration
	logger *log.Logger

	// limits whose pages may be cached
	keys map[int]struct{}
}

func NewCachedScoreStore(store ScoreStore, cache Cache, ttl time.Duration, logger *log.Logger) *CachedScoreStore {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedScoreStore{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: logger.WithPrefix("redis"),
		keys:   map[int]struct{}{0: {}, 10: {}, 20: {}, 50: {}, 100: {}},
	}
}

func cacheKey(limit int) string {
	return leaderboardKeyPrefix + strconv.Itoa(limit)
}

func (c *CachedScoreStore) Append(ctx context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, error) {
	saved, err := c.store.Append(ctx, entry)
	if err != nil {
		return domain.ScoreEntry{}, err
	}

	keys := make([]string, 0, len(c.keys))
	for limit := range c.keys {
		keys = append(keys, cacheKey(limit))
	}
	if err := c.cache.Del(ctx, keys...); err != nil {
		c.logger.Warn("Failed to invalidate leaderboard cache", "error", err)
	}
	return saved, nil
}

func (c *CachedScoreStore) List(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if limit < 0 {
		limit = 0
	}
	if _, cacheable := c.keys[limit]; !cacheable {
		return c.store.List(ctx, limit)
	}

	key := cacheKey(limit)
	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var entries []domain.ScoreEntry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
		c.logger.Warn("Discarding unreadable leaderboard cache entry", "key", key)
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn("Leaderboard cache read failed", "key", key, "error", err)
	}

	entries, err := c.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Leaderboard cache write failed", "key", key, "error", err)
	}
	return entries, nil
}
