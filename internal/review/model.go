package review

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID            uuid.UUID
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID uuid.UUID
	Rating        int
	Comment       string
	CreatedAt     time.Time
}
