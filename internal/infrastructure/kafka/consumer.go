package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"reminder-service/internal/config"
	"reminder-service/internal/domain/service"
)

// Consumer reads habit events from Kafka and applies them to the
// reminder service. A single malformed or failing message is logged
// and skipped; the consumer never stops on bad input.
type Consumer struct {
	reader    *kafka.Reader
	reminders service.ReminderService
	log       *zap.Logger
}

// NewConsumer creates a Kafka consumer for the habit-events topic.
func NewConsumer(cfg *config.KafkaConfig, reminders service.ReminderService, log *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &Consumer{
		reader:    reader,
		reminders: reminders,
		log:       log,
	}
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("starting habit-events consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("stopping habit-events consumer")
			return c.reader.Close()
		default:
			message, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return c.reader.Close()
				}
				c.log.Error("failed to read message", zap.Error(err))
				continue
			}

			if err := c.handleMessage(ctx, message.Value); err != nil {
				c.log.Error("failed to process habit event", zap.Error(err))
			}
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// handleMessage decodes the event envelope and routes it.
func (c *Consumer) handleMessage(ctx context.Context, value []byte) error {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	c.log.Debug("received habit event",
		zap.String("type", event.Type),
		zap.String("event_id", event.EventID),
	)

	switch event.Type {
	case EventHabitReminderUpdated:
		return c.handleReminderUpdated(ctx, event.Data)
	case EventHabitDeleted:
		return c.handleHabitDeleted(ctx, event.Data)
	case EventHabitSnoozed:
		return c.handleHabitSnoozed(ctx, event.Data)
	case EventHabitUnsnoozed:
		return c.handleHabitUnsnoozed(ctx, event.Data)
	case EventUserSignedOut:
		return c.handleUserSignedOut(ctx, event.Data)
	default:
		c.log.Warn("unknown event type", zap.String("type", event.Type))
		return nil
	}
}

func (c *Consumer) handleReminderUpdated(ctx context.Context, data json.RawMessage) error {
	var payload HabitReminderUpdatedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal reminder update: %w", err)
	}

	reminder, err := payload.Reminder()
	if err != nil {
		return fmt.Errorf("invalid reminder update for habit %s: %w", payload.HabitID, err)
	}

	return c.reminders.Apply(ctx, reminder)
}

func (c *Consumer) handleHabitDeleted(ctx context.Context, data json.RawMessage) error {
	var payload HabitDeletedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal habit deletion: %w", err)
	}

	return c.reminders.Remove(ctx, payload.HabitID)
}

func (c *Consumer) handleHabitSnoozed(ctx context.Context, data json.RawMessage) error {
	var payload HabitSnoozedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal snooze event: %w", err)
	}

	return c.reminders.Snooze(ctx, payload.HabitID, payload.Until)
}

func (c *Consumer) handleHabitUnsnoozed(ctx context.Context, data json.RawMessage) error {
	var payload HabitUnsnoozedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal unsnooze event: %w", err)
	}

	return c.reminders.Unsnooze(ctx, payload.HabitID)
}

func (c *Consumer) handleUserSignedOut(ctx context.Context, data json.RawMessage) error {
	var payload UserSignedOutPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal sign-out event: %w", err)
	}

	return c.reminders.SignOut(ctx, payload.UserID)
}
