package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UpdateStore remembers processed bot update ids so redelivered webhooks
// are acknowledged without being handled twice.
type UpdateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUpdateStore creates a store; ids expire after ttl.
func NewUpdateStore(client *redis.Client, ttl time.Duration) *UpdateStore {
	return &UpdateStore{client: client, ttl: ttl}
}

// MarkSeen records updateID and reports whether it was new.
func (s *UpdateStore) MarkSeen(ctx context.Context, updateID int64) (bool, error) {
	key := fmt.Sprintf("reactivation:bot:update:%d", updateID)
	return s.client.SetNX(ctx, key, 1, s.ttl).Result()
}
