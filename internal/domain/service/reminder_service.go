package service

import (
	"context"
	"time"

	"reminder-service/internal/domain/entity"
)

// ReminderScheduler maintains at most one pending single-shot timer per
// habit. Scheduling for an already scheduled habit replaces the timer,
// never stacks. All timer handles are owned exclusively by the
// scheduler; callers interact only through this interface.
type ReminderScheduler interface {
	// Schedule arms (or re-arms) the reminder for its next occurrence.
	Schedule(ctx context.Context, spec entity.ReminderSpec) error
	// Cancel clears the pending timer for the habit. No-op if absent.
	Cancel(habitID string)
	// CancelAll clears every pending timer and suppresses any in-flight
	// reschedule, leaving the registry as freshly constructed.
	CancelAll()
	// Pending reports whether a timer is armed for the habit.
	Pending(habitID string) bool
	// PendingCount returns the number of armed timers.
	PendingCount() int
}

// Dispatcher delivers a fired reminder to its enabled channels.
// Delivery is best-effort; errors are reported for logging only and
// never affect the recurring schedule.
type Dispatcher interface {
	Dispatch(ctx context.Context, spec entity.ReminderSpec) error
}

// EmailSender sends the email rendition of a reminder.
type EmailSender interface {
	SendReminderEmail(ctx context.Context, to, habitName, localTime string) error
}

// PushSender sends the browser-push rendition of a reminder.
// Supported reports whether the capability is configured; an
// unsupported sender degrades dispatch to a no-op.
type PushSender interface {
	Supported() bool
	SendPush(ctx context.Context, userID, title, body string) error
}

// ReminderService orchestrates the scheduler against the habit list:
// it applies habit settings changes, snooze transitions, and full
// resyncs. Failures are isolated per habit so one bad record never
// blocks the rest.
type ReminderService interface {
	Apply(ctx context.Context, habit *entity.HabitReminder) error
	Remove(ctx context.Context, habitID string) error
	Snooze(ctx context.Context, habitID string, until time.Time) error
	Unsnooze(ctx context.Context, habitID string) error
	SignOut(ctx context.Context, userID string) error
	ResyncAll(ctx context.Context) error
}
