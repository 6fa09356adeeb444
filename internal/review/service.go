package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/scheduling"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Post creates the single review for a completed appointment. The
// appointment must belong to the supplied patient and doctor.
func (s *Service) Post(ctx context.Context, patientID, doctorID, appointmentID uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	appt, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.PatientExists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	ok, err = s.repo.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	if appt.PatientID != patientID || appt.DoctorID != doctorID {
		return nil, ErrNotOwned
	}
	if appt.Status != scheduling.StatusCompleted {
		return nil, ErrNotCompleted
	}

	exists, err := s.repo.ExistsForAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &Review{
		ID:            uuid.New(),
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
		Rating:        rating,
		Comment:       comment,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("review_id", rv.ID.String()).
		Str("appointment_id", appointmentID.String()).
		Int("rating", rating).
		Msg("review posted")

	return rv, nil
}

// Edit overwrites rating and comment on the unique review for the pair.
func (s *Service) Edit(ctx context.Context, patientID, doctorID uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	rv, err := s.repo.GetByPatientAndDoctor(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}

	rv.Rating = rating
	rv.Comment = comment
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) Delete(ctx context.Context, patientID, doctorID uuid.UUID) error {
	rv, err := s.repo.GetByPatientAndDoctor(ctx, patientID, doctorID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, rv.ID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Review, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}
