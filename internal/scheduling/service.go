package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	redisclient "github.com/clinicbook/clinicbook/internal/redis"
)

var (
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Book reserves the (doctor, date, time) slot for a patient.
// It uses a distributed lock so that concurrent requests for the same slot
// cannot both pass the conflict check; the store's unique constraint backs
// the lock up.
func (s *Service) Book(ctx context.Context, patientID, doctorID uuid.UUID, date, timeOfDay, reason string) (*Appointment, error) {
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

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, SlotKey(doctorID, date, timeOfDay), func(lockCtx context.Context) error {
		// Inside the critical section re-check the slot before inserting
		taken, err := s.repo.SlotTaken(lockCtx, doctorID, date, timeOfDay)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}

		appt := &Appointment{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			PatientID: patientID,
			Date:      date,
			TimeOfDay: timeOfDay,
			Reason:    reason,
			Status:    StatusRequested,
			CreatedAt: s.now(),
		}
		if err := s.repo.Create(lockCtx, appt); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.log.Info().
			Str("appointment_id", appt.ID.String()).
			Str("doctor_id", doctorID.String()).
			Str("patient_id", patientID.String()).
			Str("slot", date+" "+timeOfDay).
			Msg("appointment booked")

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAll(ctx)
}

// ListByPatient fails with ErrPatientNotFound for an unknown patient rather
// than returning an empty list, so callers can distinguish the two.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	ok, err := s.repo.PatientExists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// ListByDoctorAndPatient degrades to an empty result for unknown ids to keep
// downstream consumers crash-free.
func (s *Service) ListByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) ([]Appointment, error) {
	appts, err := s.repo.ListByDoctorAndPatient(ctx, doctorID, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by doctor and patient: %w", err)
	}
	if appts == nil {
		appts = []Appointment{}
	}
	return appts, nil
}

// FutureByDoctor returns the doctor's appointments strictly after now.
func (s *Service) FutureByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	appts, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	future := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if a.StartsAt().After(now) {
			future = append(future, a)
		}
	}
	return future, nil
}

// PastByDoctor returns the doctor's appointments at or before now. The
// boundary instant counts as past, so Future and Past partition the set.
func (s *Service) PastByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	appts, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	past := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if !a.StartsAt().After(now) {
			past = append(past, a)
		}
	}
	return past, nil
}

// PendingCountByDoctor counts future appointments still in REQUESTED.
func (s *Service) PendingCountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	future, err := s.FutureByDoctor(ctx, doctorID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, a := range future {
		if a.Status == StatusRequested {
			n++
		}
	}
	return n, nil
}

func (s *Service) TotalByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) (int64, error) {
	appts, err := s.ListByDoctorAndPatient(ctx, doctorID, patientID)
	if err != nil {
		return 0, err
	}
	return int64(len(appts)), nil
}

// UpdateStatus overwrites the status unconditionally; no transition table is
// enforced.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	appt, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", id.String()).
		Str("status", string(status)).
		Msg("appointment status updated")

	return appt, nil
}
