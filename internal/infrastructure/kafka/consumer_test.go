package kafka

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"reminder-service/internal/domain/entity"
)

// recordingService captures which reminder operation a routed event hit.
type recordingService struct {
	applied   []*entity.HabitReminder
	removed   []string
	snoozed   map[string]time.Time
	unsnoozed []string
	signedOut []string
}

func newRecordingService() *recordingService {
	return &recordingService{snoozed: make(map[string]time.Time)}
}

func (s *recordingService) Apply(_ context.Context, habit *entity.HabitReminder) error {
	s.applied = append(s.applied, habit)
	return nil
}

func (s *recordingService) Remove(_ context.Context, habitID string) error {
	s.removed = append(s.removed, habitID)
	return nil
}

func (s *recordingService) Snooze(_ context.Context, habitID string, until time.Time) error {
	s.snoozed[habitID] = until
	return nil
}

func (s *recordingService) Unsnooze(_ context.Context, habitID string) error {
	s.unsnoozed = append(s.unsnoozed, habitID)
	return nil
}

func (s *recordingService) SignOut(_ context.Context, userID string) error {
	s.signedOut = append(s.signedOut, userID)
	return nil
}

func (s *recordingService) ResyncAll(context.Context) error { return nil }

func newTestConsumer(svc *recordingService) *Consumer {
	return &Consumer{reminders: svc, log: zap.NewNop()}
}

func TestHandleReminderUpdated(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{
		"event_id": "e1",
		"type": "habit.reminder_updated",
		"data": {
			"habit_id": "h1",
			"user_id": "u1",
			"name": "Read",
			"enabled": true,
			"local_time": "07:30",
			"zone": "Europe/Berlin",
			"zone_manual": true,
			"browser_channel": true,
			"email_channel": true,
			"email_address": "u@example.com",
			"updated_at": "2024-06-01T12:00:00Z"
		}
	}`)

	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(svc.applied) != 1 {
		t.Fatalf("applied %d reminders, want 1", len(svc.applied))
	}

	habit := svc.applied[0]
	if habit.HabitID != "h1" || habit.UserID != "u1" {
		t.Errorf("habit ids = %s/%s", habit.HabitID, habit.UserID)
	}
	if habit.LocalTime != (entity.TimeOfDay{Hour: 7, Minute: 30}) {
		t.Errorf("local time = %s, want 07:30", habit.LocalTime)
	}
	if got := habit.EffectiveZone(); got != "Europe/Berlin" {
		t.Errorf("effective zone = %s", got)
	}
}

func TestHandleReminderUpdatedBadTime(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{
		"type": "habit.reminder_updated",
		"data": {"habit_id": "h1", "local_time": "25:99", "zone": "UTC"}
	}`)

	if err := c.handleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed local time")
	}
	if len(svc.applied) != 0 {
		t.Errorf("malformed update reached the service")
	}
}

func TestHandleHabitDeleted(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{"type": "habit.deleted", "data": {"habit_id": "h1"}}`)
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(svc.removed) != 1 || svc.removed[0] != "h1" {
		t.Errorf("removed = %v, want [h1]", svc.removed)
	}
}

func TestHandleHabitSnoozed(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{"type": "habit.snoozed", "data": {"habit_id": "h1", "until": "2024-06-02T09:00:00Z"}}`)
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	want := time.Date(2024, time.June, 2, 9, 0, 0, 0, time.UTC)
	if got, ok := svc.snoozed["h1"]; !ok || !got.Equal(want) {
		t.Errorf("snoozed[h1] = %v, want %v", got, want)
	}
}

func TestHandleHabitUnsnoozed(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{"type": "habit.unsnoozed", "data": {"habit_id": "h1"}}`)
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(svc.unsnoozed) != 1 || svc.unsnoozed[0] != "h1" {
		t.Errorf("unsnoozed = %v, want [h1]", svc.unsnoozed)
	}
}

func TestHandleUserSignedOut(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{"type": "user.signed_out", "data": {"user_id": "u1"}}`)
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(svc.signedOut) != 1 || svc.signedOut[0] != "u1" {
		t.Errorf("signed out = %v, want [u1]", svc.signedOut)
	}
}

func TestHandleUnknownEventType(t *testing.T) {
	svc := newRecordingService()
	c := newTestConsumer(svc)

	msg := []byte(`{"type": "habit.completed", "data": {}}`)
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unknown event type must be skipped, got %v", err)
	}
}

func TestHandleMalformedEnvelope(t *testing.T) {
	c := newTestConsumer(newRecordingService())

	if err := c.handleMessage(context.Background(), []byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed envelope")
	}
}
