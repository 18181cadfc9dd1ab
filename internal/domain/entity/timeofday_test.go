package entity

import (
	"fmt"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", TimeOfDay{0, 0}, false},
		{"09:05", TimeOfDay{9, 5}, false},
		{"23:59", TimeOfDay{23, 59}, false},
		{" 12:30 ", TimeOfDay{12, 30}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"-1:00", TimeOfDay{}, true},
		{"12", TimeOfDay{}, true},
		{"12:30:00", TimeOfDay{}, true},
		{"ab:cd", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeOfDayLenient(t *testing.T) {
	if got := ParseTimeOfDayLenient("14:45"); got != (TimeOfDay{14, 45}) {
		t.Errorf("valid input: got %v", got)
	}
	if got := ParseTimeOfDayLenient("nonsense"); got != DefaultReminderTime {
		t.Errorf("malformed input: got %v, want default %v", got, DefaultReminderTime)
	}
	if got := ParseTimeOfDayLenient(""); got != DefaultReminderTime {
		t.Errorf("empty input: got %v, want default %v", got, DefaultReminderTime)
	}
}

func TestTo12HourEdges(t *testing.T) {
	tests := []struct {
		in   TimeOfDay
		want Time12
	}{
		{TimeOfDay{0, 0}, Time12{12, 0, true}},   // midnight is 12 AM
		{TimeOfDay{0, 30}, Time12{12, 30, true}},
		{TimeOfDay{1, 0}, Time12{1, 0, true}},
		{TimeOfDay{11, 59}, Time12{11, 59, true}},
		{TimeOfDay{12, 0}, Time12{12, 0, false}}, // noon is 12 PM
		{TimeOfDay{13, 15}, Time12{1, 15, false}},
		{TimeOfDay{23, 59}, Time12{11, 59, false}},
	}

	for _, tt := range tests {
		if got := To12Hour(tt.in); got != tt.want {
			t.Errorf("To12Hour(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRoundTripAllMinutes(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			in := fmt.Sprintf("%02d:%02d", hour, minute)
			tod, err := ParseTimeOfDay(in)
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q): %v", in, err)
			}
			twelve := To12Hour(tod)
			if !twelve.Valid() {
				t.Fatalf("To12Hour(%q) out of range: %+v", in, twelve)
			}
			if out := To24Hour(twelve).String(); out != in {
				t.Fatalf("round trip %q -> %+v -> %q", in, twelve, out)
			}
		}
	}
}

func TestTime12Valid(t *testing.T) {
	tests := []struct {
		in   Time12
		want bool
	}{
		{Time12{1, 0, true}, true},
		{Time12{12, 59, false}, true},
		{Time12{0, 0, true}, false},
		{Time12{13, 0, true}, false},
		{Time12{6, 60, false}, false},
		{Time12{6, -1, false}, false},
	}

	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
