package review

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/scheduling"
)

// -- Mock Repository --

type mockRepo struct {
	patients     map[uuid.UUID]bool
	doctors      map[uuid.UUID]bool
	appointments map[uuid.UUID]*scheduling.Appointment
	reviews      map[uuid.UUID]*Review
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:     make(map[uuid.UUID]bool),
		doctors:      make(map[uuid.UUID]bool),
		appointments: make(map[uuid.UUID]*scheduling.Appointment),
		reviews:      make(map[uuid.UUID]*Review),
	}
}

func (m *mockRepo) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.patients[id], nil
}

func (m *mockRepo) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.doctors[id], nil
}

func (m *mockRepo) GetAppointment(_ context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (m *mockRepo) Create(_ context.Context, rv *Review) error {
	for _, existing := range m.reviews {
		if existing.AppointmentID == rv.AppointmentID {
			return ErrAlreadyReviewed
		}
	}
	cp := *rv
	m.reviews[rv.ID] = &cp
	return nil
}

func (m *mockRepo) ExistsForAppointment(_ context.Context, appointmentID uuid.UUID) (bool, error) {
	for _, rv := range m.reviews {
		if rv.AppointmentID == appointmentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) GetByPatientAndDoctor(_ context.Context, patientID, doctorID uuid.UUID) (*Review, error) {
	for _, rv := range m.reviews {
		if rv.PatientID == patientID && rv.DoctorID == doctorID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, ErrReviewNotFound
}

func (m *mockRepo) Update(_ context.Context, rv *Review) error {
	if _, ok := m.reviews[rv.ID]; !ok {
		return ErrReviewNotFound
	}
	cp := *rv
	m.reviews[rv.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]Review, error) {
	var out []Review
	for _, rv := range m.reviews {
		if rv.DoctorID == doctorID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

// -- Helpers --

type fixture struct {
	repo          *mockRepo
	svc           *Service
	patientID     uuid.UUID
	doctorID      uuid.UUID
	appointmentID uuid.UUID
}

func newFixture(status scheduling.Status) *fixture {
	repo := newMockRepo()
	f := &fixture{
		repo:          repo,
		svc:           NewService(repo, zerolog.Nop()),
		patientID:     uuid.New(),
		doctorID:      uuid.New(),
		appointmentID: uuid.New(),
	}
	repo.patients[f.patientID] = true
	repo.doctors[f.doctorID] = true
	repo.appointments[f.appointmentID] = &scheduling.Appointment{
		ID:        f.appointmentID,
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      "2025-01-01",
		TimeOfDay: "10:00",
		Status:    status,
	}
	return f
}

// -- Tests --

func TestPostReview(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	rv, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 5, "great")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if rv.Rating != 5 || rv.Comment != "great" {
		t.Errorf("review = %+v", rv)
	}
	if rv.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestPostReviewRatingOutOfRange(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, rating, "x")
		if !errors.Is(err, ErrRatingOutOfRange) {
			t.Errorf("rating %d: err = %v, want ErrRatingOutOfRange", rating, err)
		}
	}
	if len(f.repo.reviews) != 0 {
		t.Error("review created despite invalid rating")
	}
}

func TestPostReviewUnknownEntities(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	if _, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, uuid.New(), 4, "x"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("unknown appointment: err = %v", err)
	}
	if _, err := f.svc.Post(context.Background(), uuid.New(), f.doctorID, f.appointmentID, 4, "x"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown patient: err = %v", err)
	}
	if _, err := f.svc.Post(context.Background(), f.patientID, uuid.New(), f.appointmentID, 4, "x"); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("unknown doctor: err = %v", err)
	}
}

func TestPostReviewOwnershipMismatch(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	otherPatient := uuid.New()
	f.repo.patients[otherPatient] = true

	_, err := f.svc.Post(context.Background(), otherPatient, f.doctorID, f.appointmentID, 4, "x")
	if !errors.Is(err, ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
}

func TestPostReviewNotCompleted(t *testing.T) {
	for _, status := range []scheduling.Status{
		scheduling.StatusRequested,
		scheduling.StatusConfirmed,
		scheduling.StatusCancelled,
	} {
		f := newFixture(status)
		_, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 4, "x")
		if !errors.Is(err, ErrNotCompleted) {
			t.Errorf("status %s: err = %v, want ErrNotCompleted", status, err)
		}
	}
}

func TestPostReviewDuplicate(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	if _, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 5, "great"); err != nil {
		t.Fatalf("first Post: %v", err)
	}
	_, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 3, "again")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("err = %v, want ErrAlreadyReviewed", err)
	}
	if len(f.repo.reviews) != 1 {
		t.Errorf("stored %d reviews, want 1", len(f.repo.reviews))
	}
}

func TestEditReview(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	if _, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 5, "great"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	rv, err := f.svc.Edit(context.Background(), f.patientID, f.doctorID, 2, "changed my mind")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if rv.Rating != 2 || rv.Comment != "changed my mind" {
		t.Errorf("review = %+v", rv)
	}
}

func TestEditReviewValidation(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	if _, err := f.svc.Edit(context.Background(), f.patientID, f.doctorID, 9, "x"); !errors.Is(err, ErrRatingOutOfRange) {
		t.Errorf("err = %v, want ErrRatingOutOfRange", err)
	}
	if _, err := f.svc.Edit(context.Background(), f.patientID, f.doctorID, 3, "x"); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("err = %v, want ErrReviewNotFound", err)
	}
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	if _, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 5, "great"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.patientID, f.doctorID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.repo.reviews) != 0 {
		t.Error("review not removed")
	}

	if err := f.svc.Delete(context.Background(), f.patientID, f.doctorID); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("second Delete: err = %v, want ErrReviewNotFound", err)
	}
}

func TestListByDoctor(t *testing.T) {
	f := newFixture(scheduling.StatusCompleted)

	if _, err := f.svc.Post(context.Background(), f.patientID, f.doctorID, f.appointmentID, 5, "great"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	reviews, err := f.svc.ListByDoctor(context.Background(), f.doctorID)
	if err != nil {
		t.Fatalf("ListByDoctor: %v", err)
	}
	if len(reviews) != 1 {
		t.Errorf("got %d reviews, want 1", len(reviews))
	}

	none, err := f.svc.ListByDoctor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListByDoctor unknown: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d reviews for unknown doctor", len(none))
	}
}
