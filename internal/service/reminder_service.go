package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reminder-service/internal/domain/entity"
	"reminder-service/internal/domain/repository"
	"reminder-service/internal/domain/service"
)

type reminderService struct {
	scheduler service.ReminderScheduler
	reminders repository.ReminderRepository
	snoozes   repository.SnoozeStore
	log       *zap.Logger
	now       func() time.Time
}

// NewReminderService creates the orchestration layer between the habit
// list and the timer registry.
func NewReminderService(
	scheduler service.ReminderScheduler,
	reminders repository.ReminderRepository,
	snoozes repository.SnoozeStore,
	log *zap.Logger,
) service.ReminderService {
	return &reminderService{
		scheduler: scheduler,
		reminders: reminders,
		snoozes:   snoozes,
		log:       log,
		now:       time.Now,
	}
}

// Apply projects a habit's reminder settings into the read model and
// reconciles the registry: disabled or snoozed habits have their timer
// cancelled, everything else gets (re)scheduled.
func (s *reminderService) Apply(ctx context.Context, habit *entity.HabitReminder) error {
	if habit.HabitID == "" {
		return fmt.Errorf("%w: missing habit id", entity.ErrInvalidReminder)
	}

	if err := s.reminders.Upsert(ctx, habit); err != nil {
		return fmt.Errorf("failed to store reminder settings: %w", err)
	}

	if !habit.Enabled || !habit.Spec().Channel.Enabled() {
		s.scheduler.Cancel(habit.HabitID)
		return nil
	}

	if s.isSnoozed(ctx, habit) {
		s.scheduler.Cancel(habit.HabitID)
		return nil
	}

	return s.scheduler.Schedule(ctx, habit.Spec())
}

func (s *reminderService) Remove(ctx context.Context, habitID string) error {
	s.scheduler.Cancel(habitID)

	if err := s.snoozes.Clear(ctx, habitID); err != nil {
		s.log.Warn("failed to clear snooze window", zap.String("habit_id", habitID), zap.Error(err))
	}

	if err := s.reminders.Delete(ctx, habitID); err != nil {
		return fmt.Errorf("failed to delete reminder settings: %w", err)
	}
	return nil
}

// Snooze suppresses the habit's reminder until the given instant. The
// window lives in the snooze store with a matching TTL; the pending
// timer is cancelled immediately.
func (s *reminderService) Snooze(ctx context.Context, habitID string, until time.Time) error {
	if !until.After(s.now()) {
		// Expired window, nothing to suppress.
		return nil
	}

	if err := s.snoozes.Set(ctx, habitID, until); err != nil {
		return fmt.Errorf("failed to record snooze window: %w", err)
	}

	s.scheduler.Cancel(habitID)
	return nil
}

// Unsnooze drops the snooze window and immediately re-arms the habit's
// reminder if it is still enabled.
func (s *reminderService) Unsnooze(ctx context.Context, habitID string) error {
	if err := s.snoozes.Clear(ctx, habitID); err != nil {
		return fmt.Errorf("failed to clear snooze window: %w", err)
	}

	habit, err := s.reminders.GetByHabitID(ctx, habitID)
	if err != nil {
		if errors.Is(err, entity.ErrReminderNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load reminder settings: %w", err)
	}

	if !habit.Enabled || !habit.Spec().Channel.Enabled() {
		return nil
	}

	return s.scheduler.Schedule(ctx, habit.Spec())
}

// SignOut cancels every pending reminder belonging to the user. The
// registry keeps no record of the user afterwards; a fresh sign-in
// resyncs from the read model.
func (s *reminderService) SignOut(ctx context.Context, userID string) error {
	habits, err := s.reminders.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list reminders for user %s: %w", userID, err)
	}

	for _, habit := range habits {
		s.scheduler.Cancel(habit.HabitID)
	}

	s.log.Info("cancelled reminders on sign-out",
		zap.String("user_id", userID),
		zap.Int("count", len(habits)),
	)
	return nil
}

// ResyncAll rebuilds the registry from the read model: cancel
// everything, then schedule each enabled, un-snoozed reminder. Each
// habit is its own failure boundary; a bad record is logged and
// skipped, never aborting the rest.
func (s *reminderService) ResyncAll(ctx context.Context) error {
	s.scheduler.CancelAll()

	habits, err := s.reminders.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list enabled reminders: %w", err)
	}

	scheduled := 0
	for _, habit := range habits {
		if !habit.Spec().Channel.Enabled() {
			continue
		}
		if s.isSnoozed(ctx, habit) {
			continue
		}
		if err := s.scheduler.Schedule(ctx, habit.Spec()); err != nil {
			s.log.Warn("skipping reminder",
				zap.String("habit_id", habit.HabitID),
				zap.Error(err),
			)
			continue
		}
		scheduled++
	}

	s.log.Info("reminder resync complete",
		zap.Int("scheduled", scheduled),
		zap.Int("total", len(habits)),
	)
	return nil
}

// isSnoozed consults the snooze store and the habit record itself.
// Store errors degrade to "not snoozed": suppression is best-effort and
// a reminder firing during a snooze beats reminders silently stopping.
func (s *reminderService) isSnoozed(ctx context.Context, habit *entity.HabitReminder) bool {
	if habit.SnoozedAt(s.now()) {
		return true
	}

	snoozed, err := s.snoozes.IsSnoozed(ctx, habit.HabitID)
	if err != nil {
		s.log.Warn("snooze lookup failed",
			zap.String("habit_id", habit.HabitID),
			zap.Error(err),
		)
		return false
	}
	return snoozed
}
