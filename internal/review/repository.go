package review

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/scheduling"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrReviewNotFound      = errors.New("review not found")

	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrNotOwned         = errors.New("appointment does not belong to this patient and doctor")
	ErrNotCompleted     = errors.New("review can only be submitted for completed appointments")
	ErrAlreadyReviewed  = errors.New("review already exists for this appointment")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)

	// Create must fail with ErrAlreadyReviewed when the one-review-per-
	// appointment constraint trips.
	Create(ctx context.Context, rv *Review) error
	ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)

	GetByPatientAndDoctor(ctx context.Context, patientID, doctorID uuid.UUID) (*Review, error)
	Update(ctx context.Context, rv *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Review, error)
}
