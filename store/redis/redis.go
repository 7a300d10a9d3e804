// Package redis provides a Redis-backed KeyValue implementation for kiosk and
// shared-terminal deployments where agent state lives in a local Redis rather
// than on the filesystem.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PigSoilPlus/pigsoil-notify/store"
)

// Store is a KeyValue backed by a single Redis instance. Values are written
// without expiry; the notification service applies its own retention cap.
type Store struct {
	client redis.UniversalClient
}

var _ store.KeyValue = (*Store)(nil)

// New creates a Redis store over an existing client.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get returns the value stored under key, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key with no expiry.
func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
