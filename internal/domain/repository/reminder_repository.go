package repository

import (
	"context"

	"reminder-service/internal/domain/entity"
)

// ReminderRepository is the read model of habit reminder settings. The
// habits service owns the data; this projection exists so the in-memory
// timer registry can be reconstructed after a restart.
type ReminderRepository interface {
	ListEnabled(ctx context.Context) ([]*entity.HabitReminder, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.HabitReminder, error)
	GetByHabitID(ctx context.Context, habitID string) (*entity.HabitReminder, error)
	Upsert(ctx context.Context, reminder *entity.HabitReminder) error
	Delete(ctx context.Context, habitID string) error
}
