package kafka

import (
	"encoding/json"
	"time"

	"reminder-service/internal/domain/entity"
)

// Event types published on the habit-events topic.
const (
	EventHabitReminderUpdated = "habit.reminder_updated"
	EventHabitDeleted         = "habit.deleted"
	EventHabitSnoozed         = "habit.snoozed"
	EventHabitUnsnoozed       = "habit.unsnoozed"
	EventUserSignedOut        = "user.signed_out"
)

// Event is the JSON envelope carried by every habit-events message.
type Event struct {
	EventID string          `json:"event_id"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

// HabitReminderUpdatedPayload carries the habit's full reminder
// settings. It replaces the previous settings wholesale.
type HabitReminderUpdatedPayload struct {
	HabitID        string     `json:"habit_id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Enabled        bool       `json:"enabled"`
	LocalTime      string     `json:"local_time"` // "HH:MM"
	Zone           string     `json:"zone"`
	ZoneManual     bool       `json:"zone_manual"`
	DeviceZone     string     `json:"device_zone"`
	BrowserChannel bool       `json:"browser_channel"`
	EmailChannel   bool       `json:"email_channel"`
	EmailAddress   string     `json:"email_address"`
	SnoozedUntil   *time.Time `json:"snoozed_until,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Reminder converts the payload to the domain habit record.
func (p *HabitReminderUpdatedPayload) Reminder() (*entity.HabitReminder, error) {
	localTime, err := entity.ParseTimeOfDay(p.LocalTime)
	if err != nil {
		return nil, err
	}

	return &entity.HabitReminder{
		HabitID:   p.HabitID,
		UserID:    p.UserID,
		Name:      p.Name,
		Enabled:   p.Enabled,
		LocalTime: localTime,
		ZonePreference: entity.ZonePreference{
			Zone:       p.Zone,
			Manual:     p.ZoneManual,
			DeviceZone: p.DeviceZone,
		},
		BrowserChannel: p.BrowserChannel,
		EmailChannel:   p.EmailChannel,
		EmailAddress:   p.EmailAddress,
		SnoozedUntil:   p.SnoozedUntil,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

// HabitDeletedPayload signals that a habit and its reminder are gone.
type HabitDeletedPayload struct {
	HabitID string `json:"habit_id"`
}

// HabitSnoozedPayload suppresses a habit's reminder until the given instant.
type HabitSnoozedPayload struct {
	HabitID string    `json:"habit_id"`
	Until   time.Time `json:"until"`
}

// HabitUnsnoozedPayload lifts a habit's snooze window early.
type HabitUnsnoozedPayload struct {
	HabitID string `json:"habit_id"`
}

// UserSignedOutPayload cancels every pending reminder of the user.
type UserSignedOutPayload struct {
	UserID string `json:"user_id"`
}
