package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quillcms/quill/internal/api/metrics"
	"github.com/quillcms/quill/internal/core/domain"
)

const contentTTL = 5 * time.Minute

// ContentCache caches per-app content listings in Redis.
// Key format: content:roots:<app_id>
//
// The cache is advisory: any Redis failure degrades to a datastore read and
// is logged, never surfaced to the request.
type ContentCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewContentCache(client *redis.Client, log zerolog.Logger) *ContentCache {
	return &ContentCache{client: client, log: log}
}

func (c *ContentCache) GetRoots(ctx context.Context, appID string) ([]*domain.Content, bool) {
	data, err := c.client.Get(ctx, c.key(appID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("app_id", appID).Msg("content cache read failed")
		}
		metrics.ContentCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var roots []*domain.Content
	if err := json.Unmarshal(data, &roots); err != nil {
		c.log.Warn().Err(err).Str("app_id", appID).Msg("content cache entry corrupt")
		metrics.ContentCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ContentCacheTotal.WithLabelValues("hit").Inc()
	return roots, true
}

func (c *ContentCache) SetRoots(ctx context.Context, appID string, roots []*domain.Content) {
	data, err := json.Marshal(roots)
	if err != nil {
		c.log.Warn().Err(err).Str("app_id", appID).Msg("content cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.key(appID), data, contentTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("app_id", appID).Msg("content cache write failed")
	}
}

func (c *ContentCache) Invalidate(ctx context.Context, appID string) {
	if err := c.client.Del(ctx, c.key(appID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("app_id", appID).Msg("content cache invalidation failed")
	}
}

func (c *ContentCache) key(appID string) string {
	return "content:roots:" + appID
}
