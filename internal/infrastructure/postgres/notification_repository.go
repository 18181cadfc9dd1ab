package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"reminder-service/internal/domain/entity"
	"reminder-service/internal/domain/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a PostgreSQL notification audit repository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, habit_id, channel, status, subject, body, recipient, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now().UTC()
	notification.UpdatedAt = notification.CreatedAt

	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.HabitID,
		notification.Channel,
		notification.Status,
		notification.Subject,
		notification.Body,
		notification.To,
		notification.CreatedAt,
		notification.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET status = $2, sent_at = $3, updated_at = $3
		WHERE id = $1
	`

	now := time.Now().UTC()
	if _, err := r.pool.Exec(ctx, query, id, entity.NotificationStatusSent, now); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id string, errMsg string) error {
	query := `
		UPDATE notifications
		SET status = $2, failed_at = $3, error = $4, updated_at = $3
		WHERE id = $1
	`

	now := time.Now().UTC()
	if _, err := r.pool.Exec(ctx, query, id, entity.NotificationStatusFailed, now, errMsg); err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}
