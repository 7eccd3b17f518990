package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultMergeTTL = 24 * time.Hour

// MergeGuard records merged guest cart snapshots in Redis.
// Key format: <prefix>:merged:<user_id>:<digest>
type MergeGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewMergeGuard creates a MergeGuard wrapping the given Redis client.
// A non-positive ttl falls back to defaultMergeTTL.
func NewMergeGuard(client *redis.Client, prefix string, ttl time.Duration) *MergeGuard {
	if ttl <= 0 {
		ttl = defaultMergeTTL
	}
	return &MergeGuard{client: client, prefix: prefix, ttl: ttl}
}

// IsDuplicate reports whether this exact snapshot was already merged for the user.
func (g *MergeGuard) IsDuplicate(ctx context.Context, userID, digest string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(userID, digest)).Result()
	if err != nil {
		return false, fmt.Errorf("merge guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this snapshot has been merged (expires after ttl).
func (g *MergeGuard) Mark(ctx context.Context, userID, digest string) error {
	return g.client.Set(ctx, g.key(userID, digest), "1", g.ttl).Err()
}

func (g *MergeGuard) key(userID, digest string) string {
	k := fmt.Sprintf("merged:%s:%s", userID, digest)
	if g.prefix == "" {
		return k
	}
	return g.prefix + ":" + k
}
