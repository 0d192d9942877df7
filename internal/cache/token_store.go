package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const identityTokenKey = "reactivation:identity:access_token"

// TokenStore keeps the identity platform access token shared by all
// instances of the service.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a store on the given client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Get returns the stored token or "" when none is set.
func (s *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, identityTokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Set stores the token; ttl 0 keeps it until replaced.
func (s *TokenStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, identityTokenKey, token, ttl).Err()
}

// Clear removes the token, e.g. after the platform rejected it.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, identityTokenKey).Err()
}
