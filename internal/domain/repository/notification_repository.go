package repository

import (
	"context"

	"reminder-service/internal/domain/entity"
)

// NotificationRepository persists the dispatch audit trail. The trail
// is write-only from this service; the habits service reads it.
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
}
