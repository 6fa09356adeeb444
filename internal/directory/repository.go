package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/scheduling"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrEmailTaken      = errors.New("email already registered")

	// ErrInvalidInput wraps field validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnfinishedAppointments blocks deletion while any associated
	// appointment is not COMPLETED.
	ErrUnfinishedAppointments = errors.New("entity has non-completed appointments")
)

// Repository contains all DB interactions needed by the service. The
// Create* and Delete*Cascade methods are single transactions: an entity and
// its shadow user are written and removed together or not at all.
type Repository interface {
	EmailInUse(ctx context.Context, email string) (bool, error)

	CreatePatient(ctx context.Context, p *Patient) error
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	SearchPatientsByName(ctx context.Context, name string) ([]Patient, error)
	UpdatePatient(ctx context.Context, p *Patient) error
	DeletePatientCascade(ctx context.Context, id uuid.UUID) error

	CreateDoctor(ctx context.Context, d *Doctor) error
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	SearchDoctorsBySpecialization(ctx context.Context, specialization string) ([]Doctor, error)
	UpdateDoctor(ctx context.Context, d *Doctor) error
	DeleteDoctorCascade(ctx context.Context, id uuid.UUID) error

	// Deletion gating
	AppointmentStatusesByPatient(ctx context.Context, patientID uuid.UUID) ([]scheduling.Status, error)
	AppointmentStatusesByDoctor(ctx context.Context, doctorID uuid.UUID) ([]scheduling.Status, error)
}
