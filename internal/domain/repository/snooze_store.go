package repository

import (
	"context"
	"time"
)

// SnoozeStore tracks per-habit snooze windows. A habit inside its
// window must not have a reminder scheduled; the window expires on its
// own (TTL semantics).
type SnoozeStore interface {
	Set(ctx context.Context, habitID string, until time.Time) error
	IsSnoozed(ctx context.Context, habitID string) (bool, error)
	Clear(ctx context.Context, habitID string) error
}
