package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus validates a status string coming off the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRequested, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseDate canonicalizes an ISO date (YYYY-MM-DD).
func ParseDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return t.Format(dateLayout), nil
}

// ParseTimeOfDay canonicalizes a time of day to HH:MM. Seconds are accepted
// on input and truncated, matching the slot exclusivity granularity.
func ParseTimeOfDay(s string) (string, error) {
	for _, layout := range []string{timeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}

type Appointment struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      string // canonical YYYY-MM-DD
	TimeOfDay string // canonical HH:MM
	Reason    string
	Status    Status
	CreatedAt time.Time
}

// StartsAt combines the date and time of day into a single UTC instant.
// Both fields are canonical once an appointment exists, so a parse failure
// yields the zero time, which classifies as past.
func (a *Appointment) StartsAt() time.Time {
	t, _ := time.Parse(dateLayout+" "+timeLayout, a.Date+" "+a.TimeOfDay)
	return t
}

// SlotKey identifies the exclusivity scope for a booking.
func SlotKey(doctorID uuid.UUID, date, timeOfDay string) string {
	return fmt.Sprintf("%s:%s:%s", doctorID, date, timeOfDay)
}
