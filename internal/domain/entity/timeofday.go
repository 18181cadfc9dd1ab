package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay represents a wall-clock time without a date. It is always
// interpreted in the zone of the reminder that owns it.
type TimeOfDay struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// Time12 represents a time of day in 12-hour form.
type Time12 struct {
	Hour   int // 1..12
	Minute int // 0..59
	AM     bool
}

// DefaultReminderTime is the fallback used when a stored reminder time
// cannot be parsed.
var DefaultReminderTime = TimeOfDay{Hour: 9, Minute: 0}

// Valid returns true if hour and minute are in range.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Valid returns true if the 12-hour representation is in range.
func (t Time12) Valid() bool {
	return t.Hour >= 1 && t.Hour <= 12 && t.Minute >= 0 && t.Minute <= 59
}

// ParseTimeOfDay parses a strict 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: invalid hour in %q", ErrInvalidTimeOfDay, s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: invalid minute in %q", ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDayLenient parses an arbitrary "HH:MM" string and falls
// back to DefaultReminderTime on malformed input. Reminders are a
// best-effort feature, so a corrupt stored time degrades to the default
// instead of failing the habit.
func ParseTimeOfDayLenient(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		return DefaultReminderTime
	}
	return tod
}

// To12Hour converts a 24-hour time to its 12-hour representation.
// Hour 0 maps to 12 AM and hour 12 maps to 12 PM.
func To12Hour(t TimeOfDay) Time12 {
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return Time12{
		Hour:   hour,
		Minute: t.Minute,
		AM:     t.Hour < 12,
	}
}

// To24Hour converts a 12-hour time back to its 24-hour representation.
// 12 AM maps to hour 0 and 12 PM maps to hour 12.
func To24Hour(t Time12) TimeOfDay {
	hour := t.Hour % 12
	if !t.AM {
		hour += 12
	}
	return TimeOfDay{Hour: hour, Minute: t.Minute}
}
