package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrUnknownZone      = errors.New("unknown timezone")
	ErrInvalidReminder  = errors.New("invalid reminder")
	ErrReminderNotFound = errors.New("reminder not found")
)

// Channel describes which delivery channels a reminder uses.
type Channel struct {
	Browser      bool
	Email        bool
	EmailAddress string
}

// Enabled returns true if at least one delivery channel is active.
func (c Channel) Enabled() bool {
	return c.Browser || c.Email
}

// ReminderSpec is the value object handed to the scheduler: everything
// needed to compute the next occurrence and dispatch the reminder.
// It is replaced wholesale on every settings edit.
type ReminderSpec struct {
	HabitID   string
	UserID    string
	HabitName string
	LocalTime TimeOfDay
	Zone      string
	Channel   Channel
}

// Validate checks the invariants the scheduler relies on. Zone
// resolution is left to the resolver, which reports ErrUnknownZone.
func (s *ReminderSpec) Validate() error {
	if s.HabitID == "" {
		return fmt.Errorf("%w: missing habit id", ErrInvalidReminder)
	}
	if !s.LocalTime.Valid() {
		return fmt.Errorf("%w: habit %s: %s", ErrInvalidTimeOfDay, s.HabitID, s.LocalTime)
	}
	if s.Zone == "" {
		return fmt.Errorf("%w: habit %s: empty zone", ErrUnknownZone, s.HabitID)
	}
	return nil
}

// HabitReminder is a habit's reminder settings as delivered by the
// habit-events stream and mirrored in the read model. The scheduler
// never mutates habit records; this is read-only input.
type HabitReminder struct {
	HabitID string
	UserID  string
	Name    string

	Enabled   bool
	LocalTime TimeOfDay
	ZonePreference

	BrowserChannel bool
	EmailChannel   bool
	EmailAddress   string

	SnoozedUntil *time.Time
	UpdatedAt    time.Time
}

// Spec builds the scheduler value object from the habit record,
// resolving the effective zone once.
func (h *HabitReminder) Spec() ReminderSpec {
	return ReminderSpec{
		HabitID:   h.HabitID,
		UserID:    h.UserID,
		HabitName: h.Name,
		LocalTime: h.LocalTime,
		Zone:      h.EffectiveZone(),
		Channel: Channel{
			Browser:      h.BrowserChannel,
			Email:        h.EmailChannel,
			EmailAddress: h.EmailAddress,
		},
	}
}

// SnoozedAt reports whether the habit is inside its snooze window at
// the given instant.
func (h *HabitReminder) SnoozedAt(now time.Time) bool {
	return h.SnoozedUntil != nil && h.SnoozedUntil.After(now)
}
