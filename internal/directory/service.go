package directory

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"time"
	"unicode/utf8"

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

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", ErrInvalidInput)
	}
	return nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return fmt.Errorf("%w: name must be 3 to 50 characters", ErrInvalidInput)
	}
	return nil
}

func validatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: phone number must be 10 digits", ErrInvalidInput)
	}
	return nil
}

// validatePatientFields covers everything but the email, which only the
// creation path accepts.
func (s *Service) validatePatientFields(name, phoneNumber string, dateOfBirth time.Time) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validatePhone(phoneNumber); err != nil {
		return err
	}
	if dateOfBirth.IsZero() || !dateOfBirth.Before(s.now()) {
		return fmt.Errorf("%w: date of birth must be in the past", ErrInvalidInput)
	}
	return nil
}

func validateDoctorFields(name, specialization, phoneNumber string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if specialization == "" {
		return fmt.Errorf("%w: specialization is required", ErrInvalidInput)
	}
	return validatePhone(phoneNumber)
}

// CreatePatient registers a patient together with its shadow user record.
func (s *Service) CreatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validateEmail(p.Email); err != nil {
		return nil, err
	}
	if err := s.validatePatientFields(p.Name, p.PhoneNumber, p.DateOfBirth); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailInUse(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	p.ID = uuid.New()
	if err := s.repo.CreatePatient(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Str("patient_id", p.ID.String()).Msg("patient created")
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	return s.repo.ListPatients(ctx)
}

// SearchPatients matches on a case-insensitive name substring; an empty
// query returns everyone.
func (s *Service) SearchPatients(ctx context.Context, name string) ([]Patient, error) {
	if name == "" {
		return s.repo.ListPatients(ctx)
	}
	return s.repo.SearchPatientsByName(ctx, name)
}

// UpdatePatient overwrites name, phone number and date of birth. Email is
// immutable: it anchors the shadow user.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, name, phoneNumber string, dateOfBirth time.Time) (*Patient, error) {
	if err := s.validatePatientFields(name, phoneNumber, dateOfBirth); err != nil {
		return nil, err
	}

	p, err := s.repo.GetPatientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.PhoneNumber = phoneNumber
	p.DateOfBirth = dateOfBirth
	if err := s.repo.UpdatePatient(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePatient removes the patient, their appointments and their shadow
// user as one unit, but only once every appointment is COMPLETED.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetPatientByID(ctx, id); err != nil {
		return err
	}

	statuses, err := s.repo.AppointmentStatusesByPatient(ctx, id)
	if err != nil {
		return fmt.Errorf("load appointment statuses: %w", err)
	}
	for _, st := range statuses {
		if st != scheduling.StatusCompleted {
			return fmt.Errorf("%w: cannot delete patient", ErrUnfinishedAppointments)
		}
	}

	if err := s.repo.DeletePatientCascade(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// CreateDoctor registers a doctor together with its shadow user record.
func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	if err := validateEmail(d.Email); err != nil {
		return nil, err
	}
	if err := validateDoctorFields(d.Name, d.Specialization, d.PhoneNumber); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailInUse(ctx, d.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	d.ID = uuid.New()
	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info().Str("doctor_id", d.ID.String()).Msg("doctor created")
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

func (s *Service) SearchDoctors(ctx context.Context, specialization string) ([]Doctor, error) {
	if specialization == "" {
		return s.repo.ListDoctors(ctx)
	}
	return s.repo.SearchDoctorsBySpecialization(ctx, specialization)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, name, specialization, phoneNumber string) (*Doctor, error) {
	if err := validateDoctorFields(name, specialization, phoneNumber); err != nil {
		return nil, err
	}

	d, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Name = name
	d.Specialization = specialization
	d.PhoneNumber = phoneNumber
	if err := s.repo.UpdateDoctor(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDoctor mirrors DeletePatient for the doctor side.
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetDoctorByID(ctx, id); err != nil {
		return err
	}

	statuses, err := s.repo.AppointmentStatusesByDoctor(ctx, id)
	if err != nil {
		return fmt.Errorf("load appointment statuses: %w", err)
	}
	for _, st := range statuses {
		if st != scheduling.StatusCompleted {
			return fmt.Errorf("%w: cannot delete doctor", ErrUnfinishedAppointments)
		}
	}

	if err := s.repo.DeleteDoctorCascade(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("doctor_id", id.String()).Msg("doctor deleted")
	return nil
}
