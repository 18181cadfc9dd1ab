package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"reminder-service/internal/domain/entity"
	"reminder-service/internal/domain/repository"
	"reminder-service/internal/domain/service"
)

type dispatchService struct {
	email service.EmailSender
	push  service.PushSender
	repo  repository.NotificationRepository
	log   *zap.Logger
}

// NewDispatchService creates the dispatcher that fans a fired reminder
// out to its enabled channels and records each attempt in the audit
// trail. Missing capabilities degrade to a logged no-op rather than an
// error: reminders are a convenience feature, not a data path.
func NewDispatchService(
	email service.EmailSender,
	push service.PushSender,
	repo repository.NotificationRepository,
	log *zap.Logger,
) service.Dispatcher {
	return &dispatchService{
		email: email,
		push:  push,
		repo:  repo,
		log:   log,
	}
}

func (d *dispatchService) Dispatch(ctx context.Context, spec entity.ReminderSpec) error {
	subject := "Habit reminder"
	body := fmt.Sprintf("Time to complete %q (%s)", spec.HabitName, spec.LocalTime)

	var firstErr error

	if spec.Channel.Browser {
		if err := d.dispatchPush(ctx, spec, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if spec.Channel.Email {
		if err := d.dispatchEmail(ctx, spec, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (d *dispatchService) dispatchPush(ctx context.Context, spec entity.ReminderSpec, subject, body string) error {
	if d.push == nil || !d.push.Supported() {
		d.log.Debug("push channel not configured, skipping",
			zap.String("habit_id", spec.HabitID))
		return nil
	}

	record := d.audit(ctx, spec, entity.NotificationChannelPush, subject, body, spec.UserID)

	if err := d.push.SendPush(ctx, spec.UserID, subject, body); err != nil {
		d.markFailed(ctx, record, err)
		return fmt.Errorf("failed to send push reminder: %w", err)
	}

	d.markSent(ctx, record)
	return nil
}

func (d *dispatchService) dispatchEmail(ctx context.Context, spec entity.ReminderSpec, subject, body string) error {
	if d.email == nil {
		d.log.Debug("email channel not configured, skipping",
			zap.String("habit_id", spec.HabitID))
		return nil
	}
	if spec.Channel.EmailAddress == "" {
		d.log.Warn("email channel enabled without an address, skipping",
			zap.String("habit_id", spec.HabitID))
		return nil
	}

	record := d.audit(ctx, spec, entity.NotificationChannelEmail, subject, body, spec.Channel.EmailAddress)

	if err := d.email.SendReminderEmail(ctx, spec.Channel.EmailAddress, spec.HabitName, spec.LocalTime.String()); err != nil {
		d.markFailed(ctx, record, err)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	d.markSent(ctx, record)
	return nil
}

// audit writes the pending row for a dispatch attempt. The audit trail
// is itself best-effort: a write failure is logged and dispatch
// proceeds.
func (d *dispatchService) audit(ctx context.Context, spec entity.ReminderSpec, channel entity.NotificationChannel, subject, body, to string) *entity.Notification {
	if d.repo == nil {
		return nil
	}

	record := &entity.Notification{
		UserID:  spec.UserID,
		HabitID: spec.HabitID,
		Channel: channel,
		Status:  entity.NotificationStatusPending,
		Subject: subject,
		Body:    body,
		To:      to,
	}

	if err := d.repo.Create(ctx, record); err != nil {
		d.log.Warn("failed to record notification",
			zap.String("habit_id", spec.HabitID),
			zap.Error(err),
		)
		return nil
	}
	return record
}

func (d *dispatchService) markSent(ctx context.Context, record *entity.Notification) {
	if record == nil {
		return
	}
	if err := d.repo.MarkSent(ctx, record.ID); err != nil {
		d.log.Warn("failed to update notification status", zap.Error(err))
	}
}

func (d *dispatchService) markFailed(ctx context.Context, record *entity.Notification, cause error) {
	if record == nil {
		return
	}
	if err := d.repo.MarkFailed(ctx, record.ID, cause.Error()); err != nil {
		d.log.Warn("failed to update notification status", zap.Error(err))
	}
}
