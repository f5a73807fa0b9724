package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/passfinder/passfinder/internal/model"
)

// Cache key prefixes and TTLs.
const (
	resultKeyPrefix   = "passes:"
	negCacheKeySuffix = ":neg"

	// DefaultResultTTL is the TTL for cached non-empty results.
	DefaultResultTTL = 60 * time.Second

	// DefaultNegativeTTL is the TTL for cached empty results.
	DefaultNegativeTTL = 15 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// cachedResult is the stored form of a result.
type cachedResult struct {
	Passes   []model.Gamepass `json:"passes"`
	StoredAt int64            `json:"stored_at"`
}

func resultKey(userID uint64) string {
	return resultKeyPrefix + strconv.FormatUint(userID, 10)
}

// GetResult retrieves a cached result for a user.
// Returns ErrCacheMiss if neither a result nor a negative entry exists.
func (c *Cache) GetResult(ctx context.Context, userID uint64) (*model.AggregationResult, error) {
	key := resultKey(userID)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	if err == nil {
		var cached cachedResult
		if err := json.Unmarshal(raw, &cached); err != nil {
			// Unreadable entry: drop it and treat as a miss.
			c.client.Del(ctx, key)
			return nil, ErrCacheMiss
		}
		result := model.NewAggregationResult(userID, cached.Passes)
		return &result, nil
	}

	negative, err := c.IsNegativelyCached(ctx, userID)
	if err != nil {
		return nil, err
	}
	if negative {
		result := model.NewAggregationResult(userID, nil)
		return &result, nil
	}

	return nil, ErrCacheMiss
}

// SetResult stores a result. Empty results go to the negative cache with a
// shorter TTL.
func (c *Cache) SetResult(ctx context.Context, result model.AggregationResult) error {
	key := resultKey(result.UserID)

	if result.IsEmpty() {
		pipe := c.client.Pipeline()
		pipe.Del(ctx, key)
		pipe.SetEx(ctx, key+negCacheKeySuffix, "", c.negativeTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to set negative cache: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(cachedResult{Passes: result.Passes, StoredAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.SetEx(ctx, key, raw, c.resultTTL)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}

	return nil
}

// DeleteResult removes a user's cached result and negative entry.
func (c *Cache) DeleteResult(ctx context.Context, userID uint64) error {
	key := resultKey(userID)

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete result from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a user is in the negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, userID uint64) (bool, error) {
	key := resultKey(userID) + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}
