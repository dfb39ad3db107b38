// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go caches published post views by slug and the category list in
// Valkey so repeated reads skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"devlog/internal/models"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post views.
	postKeyPrefix = "post:"

	// categoriesKey holds the cached category list.
	categoriesKey = "categories"

	// DefaultTTL is how long a cached entry lives.
	DefaultTTL = 5 * time.Minute
)

// PostCache manages post and category caching in Valkey. Every error is
// logged and treated as a miss.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// PostKey returns the cache key for a post slug.
func PostKey(slug string) string {
	return postKeyPrefix + slug
}

// Post returns the cached view for slug.
func (pc *PostCache) Post(ctx context.Context, slug string) (*models.PostView, bool) {
	var v models.PostView
	if !pc.get(ctx, PostKey(slug), &v) {
		return nil, false
	}
	return &v, true
}

// StorePost caches v under its slug.
func (pc *PostCache) StorePost(ctx context.Context, v *models.PostView) {
	pc.set(ctx, PostKey(v.Slug), v)
}

// Categories returns the cached category list.
func (pc *PostCache) Categories(ctx context.Context) ([]string, bool) {
	var c []string
	if !pc.get(ctx, categoriesKey, &c) {
		return nil, false
	}
	return c, true
}

// StoreCategories caches the category list.
func (pc *PostCache) StoreCategories(ctx context.Context, categories []string) {
	pc.set(ctx, categoriesKey, categories)
}

// Invalidate removes the given post slugs and the category list.
func (pc *PostCache) Invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs)+1)
	for _, s := range slugs {
		keys = append(keys, PostKey(s))
	}
	keys = append(keys, categoriesKey)

	if err := pc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("post cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("post cache invalidated", "keys", keys)
}

// InvalidateAll removes every cached post and the category list by scanning
// for the key prefix. Run at startup so a schema or seed change never serves
// stale views.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if err := pc.client.Del(ctx, categoriesKey).Err(); err != nil {
		slog.Warn("post cache invalidate error", "key", categoriesKey, "error", err)
	}
	if deleted > 0 {
		slog.Info("post cache cleared", "deleted", deleted)
	}
}

func (pc *PostCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := pc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("post cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("post cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("post cache hit", "key", key)
	return true
}

func (pc *PostCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("post cache encode error", "key", key, "error", err)
		return
	}
	if err := pc.client.Set(ctx, key, raw, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "key", key, "error", err)
	}
}
