package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("doctor is already booked at this time slot")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)

	// For conflict checks. Create must also fail with ErrSlotTaken when the
	// store's slot uniqueness constraint trips, so the invariant holds even
	// without the lock.
	SlotTaken(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error)
	Create(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) ([]Appointment, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
}
