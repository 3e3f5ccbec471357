package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quillcms/quill/internal/core/ports"
)

// UsageTracker keeps a per-app media object count in Redis.
// Key format: usage:media:<app_id>
//
// It is driven by the media job dispatcher, off the request path.
type UsageTracker struct {
	client *redis.Client
}

func NewUsageTracker(client *redis.Client) *UsageTracker {
	return &UsageTracker{client: client}
}

// Process applies one media job to the counter.
func (t *UsageTracker) Process(ctx context.Context, job ports.MediaJob) error {
	key := t.key(job.AppID)
	switch job.Action {
	case "uploaded":
		return t.client.Incr(ctx, key).Err()
	case "deleted":
		return t.client.Decr(ctx, key).Err()
	default:
		return fmt.Errorf("usage: unknown media job action %q", job.Action)
	}
}

// Count returns the tracked media count for an app. A missing key is zero.
func (t *UsageTracker) Count(ctx context.Context, appID string) (int64, error) {
	n, err := t.client.Get(ctx, t.key(appID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage: read count: %w", err)
	}
	return n, nil
}

func (t *UsageTracker) key(appID string) string {
	return "usage:media:" + appID
}
