package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got != "2025-01-01" {
		t.Errorf("got %q", got)
	}

	for _, bad := range []string{"", "01-01-2025", "2025-13-01", "2025-01-32", "tomorrow"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) succeeded", bad)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]string{
		"10:00":    "10:00",
		"09:30:00": "09:30",
		"23:59":    "23:59",
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTimeOfDay(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "25:00", "10:60", "noon"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("ParseTimeOfDay(%q) succeeded", bad)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"REQUESTED", "CONFIRMED", "COMPLETED", "CANCELLED"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q): %v", valid, err)
		}
	}
	for _, bad := range []string{"", "requested", "DONE"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("ParseStatus(%q) succeeded", bad)
		}
	}
}

func TestStartsAt(t *testing.T) {
	a := &Appointment{Date: "2025-06-15", TimeOfDay: "14:30"}
	want := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	if got := a.StartsAt(); !got.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", got, want)
	}
}

func TestSlotKey(t *testing.T) {
	doctorID := uuid.New()
	a := SlotKey(doctorID, "2025-01-01", "10:00")
	b := SlotKey(doctorID, "2025-01-01", "10:30")
	if a == b {
		t.Error("distinct slots share a key")
	}
	if a != SlotKey(doctorID, "2025-01-01", "10:00") {
		t.Error("slot key not deterministic")
	}
}
