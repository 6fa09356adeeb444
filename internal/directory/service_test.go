package directory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/scheduling"
)

// -- Mock Repository --

type mockRepo struct {
	patients         map[uuid.UUID]*Patient
	doctors          map[uuid.UUID]*Doctor
	usersByEmail     map[string]uuid.UUID
	patientStatuses  map[uuid.UUID][]scheduling.Status
	doctorStatuses   map[uuid.UUID][]scheduling.Status
	cascadedPatients []uuid.UUID
	cascadedDoctors  []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:        make(map[uuid.UUID]*Patient),
		doctors:         make(map[uuid.UUID]*Doctor),
		usersByEmail:    make(map[string]uuid.UUID),
		patientStatuses: make(map[uuid.UUID][]scheduling.Status),
		doctorStatuses:  make(map[uuid.UUID][]scheduling.Status),
	}
}

func (m *mockRepo) EmailInUse(_ context.Context, email string) (bool, error) {
	_, ok := m.usersByEmail[email]
	return ok, nil
}

func (m *mockRepo) CreatePatient(_ context.Context, p *Patient) error {
	if _, ok := m.usersByEmail[p.Email]; ok {
		return ErrEmailTaken
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	m.usersByEmail[p.Email] = uuid.New()
	return nil
}

func (m *mockRepo) GetPatientByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListPatients(_ context.Context) ([]Patient, error) {
	var out []Patient
	for _, p := range m.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRepo) SearchPatientsByName(_ context.Context, name string) ([]Patient, error) {
	var out []Patient
	for _, p := range m.patients {
		if p.Name == name {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdatePatient(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrPatientNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) DeletePatientCascade(_ context.Context, id uuid.UUID) error {
	p, ok := m.patients[id]
	if !ok {
		return ErrPatientNotFound
	}
	delete(m.usersByEmail, p.Email)
	delete(m.patients, id)
	delete(m.patientStatuses, id)
	m.cascadedPatients = append(m.cascadedPatients, id)
	return nil
}

func (m *mockRepo) CreateDoctor(_ context.Context, d *Doctor) error {
	if _, ok := m.usersByEmail[d.Email]; ok {
		return ErrEmailTaken
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.doctors[d.ID] = &cp
	m.usersByEmail[d.Email] = uuid.New()
	return nil
}

func (m *mockRepo) GetDoctorByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) ListDoctors(_ context.Context) ([]Doctor, error) {
	var out []Doctor
	for _, d := range m.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockRepo) SearchDoctorsBySpecialization(_ context.Context, spec string) ([]Doctor, error) {
	var out []Doctor
	for _, d := range m.doctors {
		if d.Specialization == spec {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateDoctor(_ context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return ErrDoctorNotFound
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) DeleteDoctorCascade(_ context.Context, id uuid.UUID) error {
	d, ok := m.doctors[id]
	if !ok {
		return ErrDoctorNotFound
	}
	delete(m.usersByEmail, d.Email)
	delete(m.doctors, id)
	delete(m.doctorStatuses, id)
	m.cascadedDoctors = append(m.cascadedDoctors, id)
	return nil
}

func (m *mockRepo) AppointmentStatusesByPatient(_ context.Context, id uuid.UUID) ([]scheduling.Status, error) {
	return m.patientStatuses[id], nil
}

func (m *mockRepo) AppointmentStatusesByDoctor(_ context.Context, id uuid.UUID) ([]scheduling.Status, error) {
	return m.doctorStatuses[id], nil
}

// -- Helpers --

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, zerolog.Nop())
}

func validPatient() *Patient {
	return &Patient{
		Name:        "Jane Roe",
		Email:       "jane@example.com",
		PhoneNumber: "5550001111",
		DateOfBirth: time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC),
	}
}

func validDoctor() *Doctor {
	return &Doctor{
		Name:           "Gregory House",
		Specialization: "Cardio",
		Email:          "house@example.com",
		PhoneNumber:    "5550002222",
	}
}

// -- Tests --

func TestCreatePatient(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	p, err := svc.CreatePatient(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if _, ok := repo.usersByEmail[p.Email]; !ok {
		t.Error("shadow user not created")
	}
}

func TestCreatePatientValidation(t *testing.T) {
	svc := newTestService(newMockRepo())

	mutate := func(f func(*Patient)) *Patient {
		p := validPatient()
		f(p)
		return p
	}

	cases := map[string]*Patient{
		"missing email":   mutate(func(p *Patient) { p.Email = "" }),
		"malformed email": mutate(func(p *Patient) { p.Email = "not-an-address" }),
		"missing name":    mutate(func(p *Patient) { p.Name = "" }),
		"name too short":  mutate(func(p *Patient) { p.Name = "Jo" }),
		"name too long":   mutate(func(p *Patient) { p.Name = strings.Repeat("a", 51) }),
		"missing phone":   mutate(func(p *Patient) { p.PhoneNumber = "" }),
		"short phone":     mutate(func(p *Patient) { p.PhoneNumber = "555123" }),
		"alpha phone":     mutate(func(p *Patient) { p.PhoneNumber = "55500011ab" }),
		"zero dob":        mutate(func(p *Patient) { p.DateOfBirth = time.Time{} }),
		"future dob":      mutate(func(p *Patient) { p.DateOfBirth = time.Now().AddDate(1, 0, 0) }),
	}
	for name, p := range cases {
		if _, err := svc.CreatePatient(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestCreatePatientEmailTaken(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if _, err := svc.CreatePatient(context.Background(), validPatient()); err != nil {
		t.Fatalf("first CreatePatient: %v", err)
	}
	_, err := svc.CreatePatient(context.Background(), validPatient())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestEmailSharedAcrossRoles(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if _, err := svc.CreatePatient(context.Background(), validPatient()); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	// A doctor cannot register with an email a patient already holds:
	// the shadow user table is shared.
	d := validDoctor()
	d.Email = "jane@example.com"
	if _, err := svc.CreateDoctor(context.Background(), d); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestCreateDoctorValidation(t *testing.T) {
	svc := newTestService(newMockRepo())

	mutate := func(f func(*Doctor)) *Doctor {
		d := validDoctor()
		f(d)
		return d
	}

	cases := map[string]*Doctor{
		"missing specialization": mutate(func(d *Doctor) { d.Specialization = "" }),
		"malformed email":        mutate(func(d *Doctor) { d.Email = "house.example.com" }),
		"name too short":         mutate(func(d *Doctor) { d.Name = "Dr" }),
		"bad phone":              mutate(func(d *Doctor) { d.PhoneNumber = "555-000-22" }),
	}
	for name, d := range cases {
		if _, err := svc.CreateDoctor(context.Background(), d); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestUpdatePatient(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	p, err := svc.CreatePatient(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	newDOB := time.Date(1991, 7, 9, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdatePatient(context.Background(), p.ID, "Jane Doe", "5559998888", newDOB)
	if err != nil {
		t.Fatalf("UpdatePatient: %v", err)
	}
	if updated.Name != "Jane Doe" || updated.PhoneNumber != "5559998888" || !updated.DateOfBirth.Equal(newDOB) {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Email != p.Email {
		t.Error("email changed on update")
	}
}

func TestUpdatePatientValidation(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	p, err := svc.CreatePatient(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	goodDOB := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		name  string
		phone string
		dob   time.Time
	}{
		"future dob":  {"Jane Roe", "5550001111", time.Now().AddDate(10, 0, 0)},
		"zero dob":    {"Jane Roe", "5550001111", time.Time{}},
		"empty name":  {"", "5550001111", goodDOB},
		"empty phone": {"Jane Roe", "", goodDOB},
		"bad phone":   {"Jane Roe", "555", goodDOB},
	}
	for name, c := range cases {
		if _, err := svc.UpdatePatient(context.Background(), p.ID, c.name, c.phone, c.dob); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}

	// Nothing bad made it into the store
	stored, err := svc.GetPatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
	if stored.Name != p.Name || stored.PhoneNumber != p.PhoneNumber || !stored.DateOfBirth.Equal(p.DateOfBirth) {
		t.Errorf("rejected update mutated the record: %+v", stored)
	}
}

func TestUpdateDoctorValidation(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	d, err := svc.CreateDoctor(context.Background(), validDoctor())
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}

	cases := map[string]struct {
		name           string
		specialization string
		phone          string
	}{
		"empty name":           {"", "Cardio", "5550002222"},
		"empty specialization": {"Gregory House", "", "5550002222"},
		"bad phone":            {"Gregory House", "Cardio", "call me"},
	}
	for name, c := range cases {
		if _, err := svc.UpdateDoctor(context.Background(), d.ID, c.name, c.specialization, c.phone); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}

	stored, err := svc.GetDoctor(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("GetDoctor: %v", err)
	}
	if stored.Name != d.Name || stored.Specialization != d.Specialization {
		t.Errorf("rejected update mutated the record: %+v", stored)
	}
}

func TestDeletePatientGatedOnStatus(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	p, err := svc.CreatePatient(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	repo.patientStatuses[p.ID] = []scheduling.Status{scheduling.StatusCompleted, scheduling.StatusRequested}
	if err := svc.DeletePatient(context.Background(), p.ID); !errors.Is(err, ErrUnfinishedAppointments) {
		t.Fatalf("err = %v, want ErrUnfinishedAppointments", err)
	}
	if len(repo.cascadedPatients) != 0 {
		t.Error("cascade ran despite unfinished appointments")
	}

	repo.patientStatuses[p.ID] = []scheduling.Status{scheduling.StatusCompleted, scheduling.StatusCompleted}
	if err := svc.DeletePatient(context.Background(), p.ID); err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	if len(repo.cascadedPatients) != 1 {
		t.Error("cascade did not run")
	}
	if _, ok := repo.usersByEmail[p.Email]; ok {
		t.Error("shadow user survived the cascade")
	}
}

func TestDeleteDoctorGatedOnStatus(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	d, err := svc.CreateDoctor(context.Background(), validDoctor())
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}

	repo.doctorStatuses[d.ID] = []scheduling.Status{scheduling.StatusRequested}
	if err := svc.DeleteDoctor(context.Background(), d.ID); !errors.Is(err, ErrUnfinishedAppointments) {
		t.Fatalf("err = %v, want ErrUnfinishedAppointments", err)
	}

	repo.doctorStatuses[d.ID] = []scheduling.Status{scheduling.StatusCompleted}
	if err := svc.DeleteDoctor(context.Background(), d.ID); err != nil {
		t.Fatalf("DeleteDoctor: %v", err)
	}
	if _, ok := repo.doctors[d.ID]; ok {
		t.Error("doctor survived deletion")
	}
}

func TestDeleteUnknownEntities(t *testing.T) {
	svc := newTestService(newMockRepo())

	if err := svc.DeletePatient(context.Background(), uuid.New()); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
	if err := svc.DeleteDoctor(context.Background(), uuid.New()); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
}

func TestSearchDelegation(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if _, err := svc.CreateDoctor(context.Background(), validDoctor()); err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}

	all, err := svc.SearchDoctors(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchDoctors: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("empty query returned %d doctors, want all (1)", len(all))
	}

	matched, err := svc.SearchDoctors(context.Background(), "Cardio")
	if err != nil {
		t.Fatalf("SearchDoctors: %v", err)
	}
	if len(matched) != 1 {
		t.Errorf("got %d doctors for Cardio", len(matched))
	}
}
