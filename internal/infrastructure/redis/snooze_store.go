package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reminder-service/internal/domain/repository"
)

// SnoozeStore keeps per-habit snooze windows in Redis. The key's TTL
// equals the remaining window, so expiry needs no sweeper: a missing
// key means the habit is not snoozed.
type SnoozeStore struct {
	client *redis.Client
}

// NewSnoozeStore creates a Redis-backed snooze store.
func NewSnoozeStore(client *redis.Client) repository.SnoozeStore {
	return &SnoozeStore{client: client}
}

func (s *SnoozeStore) snoozeKey(habitID string) string {
	return fmt.Sprintf("snooze:%s", habitID)
}

// Set records a snooze window ending at the given instant. An already
// expired window is a no-op.
func (s *SnoozeStore) Set(ctx context.Context, habitID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	value := until.UTC().Format(time.RFC3339)
	if err := s.client.Set(ctx, s.snoozeKey(habitID), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snooze window: %w", err)
	}

	return nil
}

func (s *SnoozeStore) IsSnoozed(ctx context.Context, habitID string) (bool, error) {
	err := s.client.Get(ctx, s.snoozeKey(habitID)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check snooze window: %w", err)
	}

	return true, nil
}

func (s *SnoozeStore) Clear(ctx context.Context, habitID string) error {
	if err := s.client.Del(ctx, s.snoozeKey(habitID)).Err(); err != nil {
		return fmt.Errorf("failed to clear snooze window: %w", err)
	}

	return nil
}
