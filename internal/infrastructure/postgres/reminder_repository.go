package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reminder-service/internal/domain/entity"
	"reminder-service/internal/domain/repository"
)

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository creates a PostgreSQL reminder settings repository.
func NewReminderRepository(pool *pgxpool.Pool) repository.ReminderRepository {
	return &reminderRepository{pool: pool}
}

const reminderColumns = `
	habit_id, user_id, name, enabled, local_time,
	zone, zone_manual, device_zone,
	browser_channel, email_channel, email_address,
	snoozed_until, updated_at
`

func (r *reminderRepository) ListEnabled(ctx context.Context) ([]*entity.HabitReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM habit_reminders
		WHERE enabled = true
		ORDER BY habit_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *reminderRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.HabitReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM habit_reminders
		WHERE user_id = $1
		ORDER BY habit_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders for user: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *reminderRepository) GetByHabitID(ctx context.Context, habitID string) (*entity.HabitReminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM habit_reminders
		WHERE habit_id = $1
	`

	reminder, err := scanReminder(r.pool.QueryRow(ctx, query, habitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: habit %s", entity.ErrReminderNotFound, habitID)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return reminder, nil
}

func (r *reminderRepository) Upsert(ctx context.Context, reminder *entity.HabitReminder) error {
	query := `
		INSERT INTO habit_reminders (
			habit_id, user_id, name, enabled, local_time,
			zone, zone_manual, device_zone,
			browser_channel, email_channel, email_address,
			snoozed_until, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13
		)
		ON CONFLICT (habit_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			enabled = EXCLUDED.enabled,
			local_time = EXCLUDED.local_time,
			zone = EXCLUDED.zone,
			zone_manual = EXCLUDED.zone_manual,
			device_zone = EXCLUDED.device_zone,
			browser_channel = EXCLUDED.browser_channel,
			email_channel = EXCLUDED.email_channel,
			email_address = EXCLUDED.email_address,
			snoozed_until = EXCLUDED.snoozed_until,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		reminder.HabitID, reminder.UserID, reminder.Name, reminder.Enabled, reminder.LocalTime.String(),
		reminder.Zone, reminder.Manual, reminder.DeviceZone,
		reminder.BrowserChannel, reminder.EmailChannel, reminder.EmailAddress,
		reminder.SnoozedUntil, reminder.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert reminder: %w", err)
	}

	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, habitID string) error {
	query := `DELETE FROM habit_reminders WHERE habit_id = $1`

	if _, err := r.pool.Exec(ctx, query, habitID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	return nil
}

func scanReminders(rows pgx.Rows) ([]*entity.HabitReminder, error) {
	var reminders []*entity.HabitReminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

func scanReminder(row pgx.Row) (*entity.HabitReminder, error) {
	var (
		reminder  entity.HabitReminder
		localTime string
	)

	err := row.Scan(
		&reminder.HabitID, &reminder.UserID, &reminder.Name, &reminder.Enabled, &localTime,
		&reminder.Zone, &reminder.Manual, &reminder.DeviceZone,
		&reminder.BrowserChannel, &reminder.EmailChannel, &reminder.EmailAddress,
		&reminder.SnoozedUntil, &reminder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Stored as "HH:MM"; a corrupt value degrades to the default time
	// rather than dropping the habit from the resync.
	reminder.LocalTime = entity.ParseTimeOfDayLenient(localTime)

	return &reminder, nil
}
